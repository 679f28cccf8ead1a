// Package uow defines the unit of work every multi-record ledger mutation runs in.
//
// Reads through a Tx observe committed state at the start of the unit. Writes are
// staged and only become visible when the function passed to RunInTx returns nil;
// any error discards all of them.
package uow

import (
	"context"

	"github.com/GregMSThompson/savings-backend/internal/models"
)

type Tx interface {
	// GetPlan returns a copy of the plan or an *errs.NotFoundError.
	GetPlan(ctx context.Context, planID string) (*models.SavingsPlan, error)
	// FindCustomerLoanPlan returns a plan of the customer whose loan status is one of
	// statuses, ignoring excludePlanID. It returns nil, nil when there is none.
	FindCustomerLoanPlan(ctx context.Context, customerID, excludePlanID string, statuses []string) (*models.SavingsPlan, error)
	GetWithdrawalRequest(ctx context.Context, requestID string) (*models.WithdrawalRequest, error)
	// FindPendingWithdrawal returns nil, nil when the plan has no pending request.
	FindPendingWithdrawal(ctx context.Context, planID string) (*models.WithdrawalRequest, error)

	CreatePlan(plan *models.SavingsPlan) error
	SavePlan(plan *models.SavingsPlan) error
	AppendEntry(entry *models.SavingsEntry) error
	SaveWithdrawalRequest(req *models.WithdrawalRequest) error
}

type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
