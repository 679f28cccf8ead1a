package models

import (
	"time"
)

const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusClosed    = "closed"

	PlanTypeSaving = "saving"
	PlanTypeLoan   = "loan"

	LoanStatusNone      = "none"
	LoanStatusPending   = "pending"
	LoanStatusRejected  = "rejected"
	LoanStatusApproved  = "approved"
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"

	LoanRequestPending   = "pending"
	LoanRequestRejected  = "rejected"
	LoanRequestCancelled = "cancelled"
)

// ActiveLoanStatuses are the loan states that count towards the one-loan-per-customer rule.
var ActiveLoanStatuses = []string{LoanStatusApproved, LoanStatusActive}

// DisbursedLoanStatuses covers every loan that was approved, including repaid ones.
var DisbursedLoanStatuses = []string{LoanStatusApproved, LoanStatusActive, LoanStatusCompleted}

// ApprovedAt returns the loan approval time, or the zero time when there is none.
func (p *SavingsPlan) ApprovedAt() time.Time {
	if p.LoanDetails == nil || p.LoanDetails.ApprovalDate == nil {
		return time.Time{}
	}
	return *p.LoanDetails.ApprovalDate
}

// SavingsPlan is a customer's fixed daily-contribution plan. AvailableBalance is
// always derived from the three totals and is never written on its own.
type SavingsPlan struct {
	ID                    string       `firestore:"id" json:"id"`
	CustomerID            string       `firestore:"customerId" json:"customerId"`
	OfficerID             string       `firestore:"officerId" json:"officerId"`
	BranchID              string       `firestore:"branchId,omitempty" json:"branchId,omitempty"`
	PlanName              string       `firestore:"planName" json:"planName"`
	Description           string       `firestore:"description,omitempty" json:"description,omitempty"`
	DailyContribution     float64      `firestore:"dailyContribution" json:"dailyContribution"`
	MaintenanceFee        float64      `firestore:"maintenanceFee" json:"maintenanceFee"`
	TargetAmount          float64      `firestore:"targetAmount,omitempty" json:"targetAmount,omitempty"`
	Status                string       `firestore:"status" json:"status"`
	PlanType              string       `firestore:"planType" json:"planType"`
	IsLoan                bool         `firestore:"isLoan" json:"isLoan"`
	TotalDeposited        float64      `firestore:"totalDeposited" json:"totalDeposited"`
	TotalFees             float64      `firestore:"totalFees" json:"totalFees"`
	TotalWithdrawn        float64      `firestore:"totalWithdrawn" json:"totalWithdrawn"`
	AvailableBalance      float64      `firestore:"availableBalance" json:"availableBalance"`
	LastFeeMonth          string       `firestore:"lastFeeMonth,omitempty" json:"lastFeeMonth,omitempty"` // YYYY-MM
	LoanStatus            string       `firestore:"loanStatus" json:"loanStatus"`
	LastLoanRequestAt     *time.Time   `firestore:"lastLoanRequestAt,omitempty" json:"lastLoanRequestAt,omitempty"`
	LastLoanRequestAmount float64      `firestore:"lastLoanRequestAmount,omitempty" json:"lastLoanRequestAmount,omitempty"`
	LoanStatusUpdatedAt   *time.Time   `firestore:"loanStatusUpdatedAt,omitempty" json:"loanStatusUpdatedAt,omitempty"`
	LoanRequest           *LoanRequest `firestore:"loanRequest,omitempty" json:"loanRequest,omitempty"`
	LoanDetails           *LoanDetails `firestore:"loanDetails,omitempty" json:"loanDetails,omitempty"`
	StartDate             time.Time    `firestore:"startDate" json:"startDate"`
	EndDate               *time.Time   `firestore:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt             time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time    `firestore:"updatedAt" json:"updatedAt"`
}

type Guarantor struct {
	Name         string `firestore:"name" json:"name"`
	Address      string `firestore:"address,omitempty" json:"address,omitempty"`
	Phone        string `firestore:"phone,omitempty" json:"phone,omitempty"`
	Relationship string `firestore:"relationship,omitempty" json:"relationship,omitempty"`
}

// LoanRequest is present while a loan ask is pending review.
type LoanRequest struct {
	Amount      float64   `firestore:"amount" json:"amount"`
	DailyAmount float64   `firestore:"dailyAmount" json:"dailyAmount"`
	Status      string    `firestore:"status,omitempty" json:"status,omitempty"`
	RequestDate time.Time `firestore:"requestDate" json:"requestDate"`
	Guarantor   Guarantor `firestore:"guarantor" json:"guarantor"`
	Signature   string    `firestore:"signature" json:"signature"`
}

// LoanDetails is filled in once a loan is approved. Older plans may carry a
// pending request here instead of in LoanRequest.
type LoanDetails struct {
	Amount             float64    `firestore:"amount" json:"amount"`
	DailyAmount        float64    `firestore:"dailyAmount" json:"dailyAmount"`
	Status             string     `firestore:"status" json:"status"`
	RequestDate        time.Time  `firestore:"requestDate" json:"requestDate"`
	ApprovalDate       *time.Time `firestore:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	StartDate          *time.Time `firestore:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate            *time.Time `firestore:"endDate,omitempty" json:"endDate,omitempty"`
	Guarantor          Guarantor  `firestore:"guarantor" json:"guarantor"`
	Signature          string     `firestore:"signature" json:"signature"`
	MaintenanceFeePaid bool       `firestore:"maintenanceFeePaid" json:"maintenanceFeePaid"`
}

// Clone returns a deep copy so callers can mutate the plan without touching shared state.
func (p *SavingsPlan) Clone() *SavingsPlan {
	if p == nil {
		return nil
	}
	c := *p
	if p.LoanRequest != nil {
		r := *p.LoanRequest
		c.LoanRequest = &r
	}
	if p.LoanDetails != nil {
		d := *p.LoanDetails
		c.LoanDetails = &d
	}
	return &c
}
