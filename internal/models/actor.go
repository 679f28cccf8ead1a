package models

const (
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// Actor is the authenticated officer or admin performing a call.
type Actor struct {
	UID   string
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Label is the human-facing name recorded on processed requests.
func (a Actor) Label() string {
	if a.Email != "" {
		return a.Email
	}
	if a.UID != "" {
		return a.UID
	}
	return RoleAdmin
}
