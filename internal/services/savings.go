package services

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
	"github.com/GregMSThompson/savings-backend/pkg/helpers"
	"github.com/GregMSThompson/savings-backend/pkg/logger"
	"github.com/GregMSThompson/savings-backend/pkg/money"
)

const (
	defaultEntryPageLimit = 20
	maxEntryPageLimit     = 100
	recentActivityLimit   = 20
)

type planQueryStore interface {
	GetPlan(ctx context.Context, planID string) (*models.SavingsPlan, error)
}

type entryQueryStore interface {
	ListEntries(ctx context.Context, planID string, offset, limit int) ([]*models.SavingsEntry, int, error)
}

type withdrawalQueryStore interface {
	ListWithdrawalsByPlan(ctx context.Context, planID string, limit int) ([]*models.WithdrawalRequest, error)
	ListWithdrawalsByStatus(ctx context.Context, status string) ([]*models.WithdrawalRequest, error)
}

type savingsService struct {
	uow         uow.Runner
	plans       planQueryStore
	entries     entryQueryStore
	withdrawals withdrawalQueryStore
	ledger      *ledger
}

func NewSavingsService(runner uow.Runner, plans planQueryStore, entries entryQueryStore, withdrawals withdrawalQueryStore) *savingsService {
	return &savingsService{
		uow:         runner,
		plans:       plans,
		entries:     entries,
		withdrawals: withdrawals,
		ledger:      newLedger(),
	}
}

// ensureAccess hides plans of other officers behind a not-found error.
func ensureAccess(actor models.Actor, plan *models.SavingsPlan) error {
	if actor.IsAdmin() || plan.OfficerID == actor.UID {
		return nil
	}
	return errs.NewNotFoundError("savings plan not found")
}

func loadPlan(ctx context.Context, tx uow.Tx, actor models.Actor, planID string) (*models.SavingsPlan, error) {
	plan, err := tx.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := ensureAccess(actor, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *savingsService) CreatePlan(ctx context.Context, actor models.Actor, req dto.CreatePlanRequest) (*models.SavingsPlan, error) {
	if strings.TrimSpace(req.CustomerID) == "" || strings.TrimSpace(req.PlanName) == "" || req.DailyContribution == 0 {
		return nil, errs.NewValidationError("customerId, planName and dailyContribution are required")
	}
	daily := money.Round2(req.DailyContribution)
	if daily <= 0 {
		return nil, errs.NewValidationError("dailyContribution must be greater than zero")
	}

	officerID := actor.UID
	if actor.IsAdmin() && req.OfficerID != "" {
		officerID = req.OfficerID
	}
	if officerID == "" {
		return nil, errs.NewValidationError("officerId is required")
	}

	fee := daily
	if req.MaintenanceFee != nil {
		if *req.MaintenanceFee < 0 {
			return nil, errs.NewValidationError("maintenanceFee cannot be negative")
		}
		if *req.MaintenanceFee > 0 {
			fee = money.Round2(*req.MaintenanceFee)
		}
	}
	target := money.Round2(helpers.Value(req.TargetAmount))
	if target < 0 {
		return nil, errs.NewValidationError("targetAmount cannot be negative")
	}

	now := s.ledger.clockNow()
	plan := &models.SavingsPlan{
		ID:                uuid.New().String(),
		CustomerID:        req.CustomerID,
		OfficerID:         officerID,
		BranchID:          req.BranchID,
		PlanName:          strings.TrimSpace(req.PlanName),
		Description:       strings.TrimSpace(req.Description),
		DailyContribution: daily,
		MaintenanceFee:    fee,
		TargetAmount:      target,
		Status:            models.PlanStatusActive,
		PlanType:          models.PlanTypeSaving,
		LoanStatus:        models.LoanStatusNone,
		StartDate:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	recomputeBalance(plan)

	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		return tx.CreatePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("savings plan created", "plan_id", plan.ID, "customer_id", plan.CustomerID, "daily_contribution", daily)
	return plan, nil
}

func (s *savingsService) GetPlan(ctx context.Context, actor models.Actor, planID string) (dto.PlanDetail, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return dto.PlanDetail{}, err
	}
	if err := ensureAccess(actor, plan); err != nil {
		return dto.PlanDetail{}, err
	}

	entries, _, err := s.entries.ListEntries(ctx, planID, 0, recentActivityLimit)
	if err != nil {
		return dto.PlanDetail{}, err
	}
	requests, err := s.withdrawals.ListWithdrawalsByPlan(ctx, planID, recentActivityLimit)
	if err != nil {
		return dto.PlanDetail{}, err
	}

	detail := dto.PlanDetail{
		Plan:               normalizePlanView(plan),
		RecentEntries:      entries,
		WithdrawalRequests: requests,
	}
	if len(requests) > 0 {
		detail.LatestWithdrawalRequest = requests[0]
	}
	return detail, nil
}

func (s *savingsService) UpdatePlanStatus(ctx context.Context, actor models.Actor, planID, status string) (*models.SavingsPlan, error) {
	switch status {
	case models.PlanStatusActive, models.PlanStatusCompleted, models.PlanStatusClosed:
	default:
		return nil, errs.NewValidationError("invalid status: " + status)
	}

	var plan *models.SavingsPlan
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		plan, err = loadPlan(ctx, tx, actor, planID)
		if err != nil {
			return err
		}
		now := s.ledger.clockNow()
		plan.Status = status
		if status == models.PlanStatusActive {
			plan.EndDate = nil
		} else {
			plan.EndDate = &now
		}
		plan.UpdatedAt = now
		return tx.SavePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("savings plan status updated", "plan_id", planID, "status", status)
	return plan, nil
}

func (s *savingsService) RecordDeposit(ctx context.Context, actor models.Actor, planID string, req dto.DepositRequest) (dto.DepositResult, error) {
	var result dto.DepositResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		plan, err := loadPlan(ctx, tx, actor, planID)
		if err != nil {
			return err
		}
		amount := helpers.ValueOr(req.Amount, plan.DailyContribution)
		out, err := s.ledger.deposit(ctx, tx, plan, amount, req.Narration, req.RecordedAt, actor)
		if err != nil {
			return err
		}
		result = dto.DepositResult{Plan: plan, Entry: out.entry, FeeEntry: out.feeEntry, FeeApplied: out.feeApplied}
		return nil
	})
	if err != nil {
		return dto.DepositResult{}, err
	}

	logger.FromContext(ctx).Info("deposit recorded",
		"plan_id", planID,
		"amount", result.Entry.Amount,
		"fee_applied", result.FeeApplied,
		"available_balance", result.Plan.AvailableBalance)
	return result, nil
}

// RecordWithdrawal books a withdrawal directly. Only the admin surface calls it;
// officers go through withdrawal requests.
func (s *savingsService) RecordWithdrawal(ctx context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (dto.WithdrawalResult, error) {
	if !actor.IsAdmin() {
		return dto.WithdrawalResult{}, errs.NewForbiddenError("direct withdrawal processing is disabled, submit a withdrawal request for admin approval")
	}

	var result dto.WithdrawalResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		plan, err := tx.GetPlan(ctx, planID)
		if err != nil {
			return err
		}
		entry, err := s.ledger.withdraw(ctx, tx, plan, in.Amount, in.Narration, in.RecordedAt, actor)
		if err != nil {
			return err
		}
		result = dto.WithdrawalResult{Plan: plan, Entry: entry}
		return nil
	})
	if err != nil {
		return dto.WithdrawalResult{}, err
	}

	logger.FromContext(ctx).Info("withdrawal recorded", "plan_id", planID, "amount", result.Entry.Amount, "plan_status", result.Plan.Status)
	return result, nil
}

func (s *savingsService) ListEntries(ctx context.Context, actor models.Actor, planID string, page, limit int) (dto.EntryPage, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return dto.EntryPage{}, err
	}
	if err := ensureAccess(actor, plan); err != nil {
		return dto.EntryPage{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultEntryPageLimit
	}
	if limit > maxEntryPageLimit {
		limit = maxEntryPageLimit
	}
	if page-1 > math.MaxInt32/limit {
		return dto.EntryPage{}, errs.NewValidationError("page is out of range")
	}

	items, total, err := s.entries.ListEntries(ctx, planID, (page-1)*limit, limit)
	if err != nil {
		return dto.EntryPage{}, err
	}
	return dto.EntryPage{
		Items: items,
		Pagination: dto.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

func (s *savingsService) ListWithdrawalRequestsForPlan(ctx context.Context, actor models.Actor, planID string) ([]*models.WithdrawalRequest, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := ensureAccess(actor, plan); err != nil {
		return nil, err
	}
	return s.withdrawals.ListWithdrawalsByPlan(ctx, planID, 0)
}
