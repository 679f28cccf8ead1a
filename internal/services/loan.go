package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
	"github.com/GregMSThompson/savings-backend/pkg/logger"
	"github.com/GregMSThompson/savings-backend/pkg/money"
)

// LoanPolicy holds the multipliers that decide loan eligibility and size.
type LoanPolicy struct {
	MinDepositMultiple int // deposits required before a loan, in daily contributions
	LoanAmountMultiple int // loan size, in daily contributions
	TermDays           int
}

var DefaultLoanPolicy = LoanPolicy{
	MinDepositMultiple: 5,
	LoanAmountMultiple: 30,
	TermDays:           32,
}

type loanQueryStore interface {
	ListPendingLoans(ctx context.Context) ([]*models.SavingsPlan, error)
	ListActiveLoans(ctx context.Context) ([]*models.SavingsPlan, error)
}

type loanService struct {
	uow    uow.Runner
	loans  loanQueryStore
	policy LoanPolicy
	ledger *ledger
}

func NewLoanService(runner uow.Runner, loans loanQueryStore, policy LoanPolicy) *loanService {
	return &loanService{
		uow:    runner,
		loans:  loans,
		policy: policy,
		ledger: newLedger(),
	}
}

// pendingLoanRequest returns the plan's pending loan ask, wherever it is stored,
// or nil when there is none. A plan marked pending without any payload yields an
// empty view so callers fall back to the plan's own figures.
func pendingLoanRequest(plan *models.SavingsPlan) *models.LoanRequest {
	if r := plan.LoanRequest; r != nil {
		if r.Status == models.LoanRequestPending || (r.Status == "" && plan.LoanStatus == models.LoanStatusPending) {
			view := *r
			view.Status = models.LoanRequestPending
			return &view
		}
	}
	if d := plan.LoanDetails; d != nil && d.Status == models.LoanStatusPending {
		return &models.LoanRequest{
			Amount:      d.Amount,
			DailyAmount: d.DailyAmount,
			Status:      models.LoanRequestPending,
			RequestDate: d.RequestDate,
			Guarantor:   d.Guarantor,
			Signature:   d.Signature,
		}
	}
	if plan.LoanStatus == models.LoanStatusPending {
		return &models.LoanRequest{Status: models.LoanRequestPending}
	}
	return nil
}

// normalizePlanView fills in type and loan fields for plans written before they
// existed and replaces LoanRequest with the canonical pending view.
func normalizePlanView(plan *models.SavingsPlan) *models.SavingsPlan {
	view := plan.Clone()
	if view.PlanType == "" {
		view.PlanType = models.PlanTypeSaving
		if view.IsLoan {
			view.PlanType = models.PlanTypeLoan
		}
	}
	if view.LoanStatus == "" {
		switch {
		case view.IsLoan && view.LoanDetails != nil && view.LoanDetails.Status != "":
			view.LoanStatus = view.LoanDetails.Status
		case view.IsLoan:
			view.LoanStatus = models.LoanStatusApproved
		default:
			view.LoanStatus = models.LoanStatusNone
		}
	}
	view.LoanRequest = pendingLoanRequest(view)
	return view
}

func (s *loanService) RequestLoan(ctx context.Context, actor models.Actor, planID string, in dto.LoanRequestInput) (*models.SavingsPlan, error) {
	if in.Guarantor == nil || strings.TrimSpace(in.Guarantor.Name) == "" {
		return nil, errs.NewValidationError("guarantor name is required")
	}
	if strings.TrimSpace(in.Signature) == "" {
		return nil, errs.NewValidationError("customer signature is required")
	}

	var plan *models.SavingsPlan
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		plan, err = loadPlan(ctx, tx, actor, planID)
		if err != nil {
			return err
		}
		if plan.PlanType == models.PlanTypeLoan || plan.IsLoan {
			return errs.NewStateConflictError(errs.ReasonAlreadyLoan, "plan is already a loan")
		}
		if pendingLoanRequest(plan) != nil {
			return errs.NewStateConflictError(errs.ReasonRequestPending, "a loan request is already pending for this plan")
		}
		active, err := tx.FindCustomerLoanPlan(ctx, plan.CustomerID, "", models.ActiveLoanStatuses)
		if err != nil {
			return err
		}
		if active != nil {
			return errs.NewStateConflictError(errs.ReasonActiveLoanExists, "customer already has an active loan")
		}

		required := money.Times(plan.DailyContribution, s.policy.MinDepositMultiple)
		if plan.TotalDeposited < required {
			return errs.NewValidationErrorWithReason(errs.ReasonInsufficientHistory,
				fmt.Sprintf("customer must have deposited at least %s before requesting a loan, currently %s",
					money.Format(required), money.Format(plan.TotalDeposited)))
		}

		now := s.ledger.clockNow()
		amount := money.Times(plan.DailyContribution, s.policy.LoanAmountMultiple)
		plan.LoanStatus = models.LoanStatusPending
		plan.PlanType = models.PlanTypeSaving
		plan.IsLoan = false
		plan.LoanDetails = nil
		plan.LoanRequest = &models.LoanRequest{
			Amount:      amount,
			DailyAmount: plan.DailyContribution,
			Status:      models.LoanRequestPending,
			RequestDate: now,
			Guarantor:   *in.Guarantor,
			Signature:   in.Signature,
		}
		plan.LastLoanRequestAt = &now
		plan.LastLoanRequestAmount = amount
		plan.LoanStatusUpdatedAt = &now
		plan.UpdatedAt = now
		return tx.SavePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("loan requested", "plan_id", planID, "customer_id", plan.CustomerID, "amount", plan.LoanRequest.Amount)
	return plan, nil
}

func (s *loanService) ApproveLoan(ctx context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error) {
	var plan *models.SavingsPlan
	var feeEntry *models.SavingsEntry
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		plan, err = tx.GetPlan(ctx, planID)
		if err != nil {
			return err
		}
		view := pendingLoanRequest(plan)
		if view == nil {
			return errs.NewStateConflictError(errs.ReasonNoPendingRequest, "no pending loan request")
		}
		other, err := tx.FindCustomerLoanPlan(ctx, plan.CustomerID, plan.ID, models.ActiveLoanStatuses)
		if err != nil {
			return err
		}
		if other != nil {
			return errs.NewStateConflictError(errs.ReasonDuplicateActiveLoan, "customer already has an active loan on plan "+other.ID)
		}

		now := s.ledger.clockNow()
		amount := view.Amount
		if amount <= 0 {
			amount = money.Times(plan.DailyContribution, s.policy.LoanAmountMultiple)
		}
		daily := view.DailyAmount
		if daily <= 0 {
			daily = plan.DailyContribution
		}
		requested := view.RequestDate
		if requested.IsZero() {
			requested = now
		}
		end := now.Add(time.Duration(s.policy.TermDays) * 24 * time.Hour)
		start := now

		plan.PlanType = models.PlanTypeLoan
		plan.IsLoan = true
		plan.LoanStatus = models.LoanStatusApproved
		plan.LoanStatusUpdatedAt = &now
		plan.LoanDetails = &models.LoanDetails{
			Amount:             amount,
			DailyAmount:        daily,
			Status:             models.LoanStatusApproved,
			RequestDate:        requested,
			ApprovalDate:       &start,
			StartDate:          &start,
			EndDate:            &end,
			Guarantor:          view.Guarantor,
			Signature:          view.Signature,
			MaintenanceFeePaid: true,
		}
		plan.LoanRequest = nil

		feeEntry, err = s.ledger.chargeFee(tx, plan, plan.DailyContribution, narrationLoanFee, actor)
		if err != nil {
			return err
		}
		recomputeBalance(plan)
		plan.UpdatedAt = now
		return tx.SavePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("loan approved",
		"plan_id", planID,
		"amount", plan.LoanDetails.Amount,
		"fee", feeEntry.Amount,
		"approved_by", actor.Label())
	return plan, nil
}

func (s *loanService) RejectLoan(ctx context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error) {
	var plan *models.SavingsPlan
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		plan, err = tx.GetPlan(ctx, planID)
		if err != nil {
			return err
		}
		if pendingLoanRequest(plan) == nil {
			return errs.NewStateConflictError(errs.ReasonNoPendingRequest, "no pending loan request")
		}

		now := s.ledger.clockNow()
		plan.PlanType = models.PlanTypeSaving
		plan.IsLoan = false
		plan.LoanStatus = models.LoanStatusRejected
		plan.LoanStatusUpdatedAt = &now
		if plan.LoanRequest != nil {
			plan.LoanRequest.Status = models.LoanRequestRejected
		}
		plan.LoanDetails = nil
		plan.UpdatedAt = now
		return tx.SavePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("loan rejected", "plan_id", planID, "rejected_by", actor.Label())
	return plan, nil
}

func (s *loanService) ListPendingLoans(ctx context.Context) ([]*models.SavingsPlan, error) {
	plans, err := s.loans.ListPendingLoans(ctx)
	if err != nil {
		return nil, err
	}
	return normalizePlanViews(plans), nil
}

// ListActiveLoans lists approved, running and completed loans, newest approval first.
func (s *loanService) ListActiveLoans(ctx context.Context) ([]*models.SavingsPlan, error) {
	plans, err := s.loans.ListActiveLoans(ctx)
	if err != nil {
		return nil, err
	}
	return normalizePlanViews(plans), nil
}

func normalizePlanViews(plans []*models.SavingsPlan) []*models.SavingsPlan {
	out := make([]*models.SavingsPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, normalizePlanView(p))
	}
	return out
}
