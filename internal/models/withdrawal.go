package models

import "time"

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type WithdrawalRequest struct {
	ID           string     `firestore:"id" json:"id"`
	PlanID       string     `firestore:"planId" json:"planId"`
	CustomerID   string     `firestore:"customerId" json:"customerId"`
	OfficerID    string     `firestore:"officerId" json:"officerId"`
	Amount       float64    `firestore:"amount" json:"amount"`
	Narration    string     `firestore:"narration" json:"narration"`
	RecordedAt   time.Time  `firestore:"recordedAt" json:"recordedAt"`
	Status       string     `firestore:"status" json:"status"`
	ProcessedAt  *time.Time `firestore:"processedAt,omitempty" json:"processedAt,omitempty"`
	ProcessedBy  string     `firestore:"processedBy,omitempty" json:"processedBy,omitempty"`
	ResponseNote string     `firestore:"responseNote,omitempty" json:"responseNote,omitempty"`
	CreatedAt    time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

func (w *WithdrawalRequest) Clone() *WithdrawalRequest {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}
