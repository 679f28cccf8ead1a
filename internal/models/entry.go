package models

import "time"

const (
	EntryTypeDeposit    = "deposit"
	EntryTypeFee        = "fee"
	EntryTypeWithdrawal = "withdrawal"
	EntryTypeAdjustment = "adjustment"
)

// SavingsEntry is one immutable monetary movement against a plan.
type SavingsEntry struct {
	ID         string    `firestore:"id" json:"id"`
	PlanID     string    `firestore:"planId" json:"planId"`
	CustomerID string    `firestore:"customerId" json:"customerId"`
	OfficerID  string    `firestore:"officerId" json:"officerId"`
	Type       string    `firestore:"type" json:"type"`
	Amount     float64   `firestore:"amount" json:"amount"`
	Narration  string    `firestore:"narration" json:"narration"`
	RecordedAt time.Time `firestore:"recordedAt" json:"recordedAt"`
	RecordedBy string    `firestore:"recordedBy" json:"recordedBy"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
}
