package dto

import (
	"time"

	"github.com/GregMSThompson/savings-backend/internal/models"
)

type CreatePlanRequest struct {
	CustomerID        string   `json:"customerId"`
	OfficerID         string   `json:"officerId,omitempty"`
	BranchID          string   `json:"branchId,omitempty"`
	PlanName          string   `json:"planName"`
	Description       string   `json:"description,omitempty"`
	DailyContribution float64  `json:"dailyContribution"`
	MaintenanceFee    *float64 `json:"maintenanceFee,omitempty"`
	TargetAmount      *float64 `json:"targetAmount,omitempty"`
}

type UpdatePlanStatusRequest struct {
	Status string `json:"status"`
}

// DepositRequest records money paid into a plan. A nil Amount means one daily contribution.
type DepositRequest struct {
	Amount     *float64   `json:"amount,omitempty"`
	Narration  string     `json:"narration,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

type DepositResult struct {
	Plan       *models.SavingsPlan  `json:"plan"`
	Entry      *models.SavingsEntry `json:"entry"`
	FeeEntry   *models.SavingsEntry `json:"feeEntry,omitempty"`
	FeeApplied float64              `json:"feeApplied"`
}

type WithdrawalInput struct {
	Amount     float64    `json:"amount"`
	Narration  string     `json:"narration,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

type WithdrawalResult struct {
	Plan  *models.SavingsPlan  `json:"plan"`
	Entry *models.SavingsEntry `json:"entry"`
}

type WithdrawalDecision struct {
	Request *models.WithdrawalRequest `json:"request"`
	Plan    *models.SavingsPlan       `json:"plan,omitempty"`
}

type RejectWithdrawalInput struct {
	Note string `json:"note,omitempty"`
}

type LoanRequestInput struct {
	Guarantor *models.Guarantor `json:"guarantor"`
	Signature string            `json:"customerSignature"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type EntryPage struct {
	Items      []*models.SavingsEntry `json:"items"`
	Pagination Pagination             `json:"pagination"`
}

// PlanDetail is a plan with its loan request normalized and its most recent activity.
type PlanDetail struct {
	Plan                    *models.SavingsPlan         `json:"plan"`
	RecentEntries           []*models.SavingsEntry      `json:"recentEntries"`
	WithdrawalRequests      []*models.WithdrawalRequest `json:"withdrawalRequests"`
	LatestWithdrawalRequest *models.WithdrawalRequest   `json:"latestWithdrawalRequest"`
}
