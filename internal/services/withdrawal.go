package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/uow"
	"github.com/GregMSThompson/savings-backend/pkg/logger"
	"github.com/GregMSThompson/savings-backend/pkg/money"
)

type withdrawalService struct {
	uow         uow.Runner
	withdrawals withdrawalQueryStore
	ledger      *ledger
}

func NewWithdrawalService(runner uow.Runner, withdrawals withdrawalQueryStore) *withdrawalService {
	return &withdrawalService{
		uow:         runner,
		withdrawals: withdrawals,
		ledger:      newLedger(),
	}
}

// CreateRequest files a pending withdrawal for admin approval. Balances are not
// touched until the request is approved.
func (s *withdrawalService) CreateRequest(ctx context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (*models.WithdrawalRequest, error) {
	var req *models.WithdrawalRequest
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		plan, err := loadPlan(ctx, tx, actor, planID)
		if err != nil {
			return err
		}
		if plan.Status == models.PlanStatusClosed {
			return errs.NewStateConflictError(errs.ReasonPlanClosed, "cannot request a withdrawal from a closed plan")
		}
		amount := money.Round2(in.Amount)
		if amount <= 0 {
			return errs.NewValidationError("withdrawal amount must be greater than zero")
		}
		if amount > plan.AvailableBalance {
			return errs.NewInsufficientFundsError(amount, plan.AvailableBalance)
		}
		existing, err := tx.FindPendingWithdrawal(ctx, plan.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.NewStateConflictError(errs.ReasonWithdrawalPending, "a withdrawal request is already pending for this plan")
		}

		now := s.ledger.clockNow()
		recordedAt := now
		if in.RecordedAt != nil && !in.RecordedAt.IsZero() {
			recordedAt = *in.RecordedAt
		}
		narration := in.Narration
		if narration == "" {
			narration = narrationWithdrawal
		}
		req = &models.WithdrawalRequest{
			ID:         uuid.New().String(),
			PlanID:     plan.ID,
			CustomerID: plan.CustomerID,
			OfficerID:  plan.OfficerID,
			Amount:     amount,
			Narration:  narration,
			RecordedAt: recordedAt,
			Status:     models.WithdrawalPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.SaveWithdrawalRequest(req); err != nil {
			return err
		}

		// rewriting the plan makes two creations on the same plan conflict
		plan.UpdatedAt = now
		return tx.SavePlan(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("withdrawal requested", "plan_id", planID, "request_id", req.ID, "amount", req.Amount)
	return req, nil
}

func (s *withdrawalService) Approve(ctx context.Context, actor models.Actor, requestID string) (dto.WithdrawalDecision, error) {
	var decision dto.WithdrawalDecision
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		req, err := tx.GetWithdrawalRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.WithdrawalPending {
			return errs.NewStateConflictError(errs.ReasonRequestNotPending, "withdrawal request is already "+req.Status)
		}
		plan, err := tx.GetPlan(ctx, req.PlanID)
		if err != nil {
			return err
		}
		recordedAt := req.RecordedAt
		if _, err := s.ledger.withdraw(ctx, tx, plan, req.Amount, req.Narration, &recordedAt, actor); err != nil {
			return err
		}

		now := s.ledger.clockNow()
		req.Status = models.WithdrawalApproved
		req.ProcessedAt = &now
		req.ProcessedBy = actor.Label()
		req.UpdatedAt = now
		if err := tx.SaveWithdrawalRequest(req); err != nil {
			return err
		}
		decision = dto.WithdrawalDecision{Request: req, Plan: plan}
		return nil
	})
	if err != nil {
		return dto.WithdrawalDecision{}, err
	}

	logger.FromContext(ctx).Info("withdrawal approved",
		"request_id", requestID,
		"plan_id", decision.Plan.ID,
		"amount", decision.Request.Amount,
		"available_balance", decision.Plan.AvailableBalance)
	return decision, nil
}

func (s *withdrawalService) Reject(ctx context.Context, actor models.Actor, requestID, note string) (*models.WithdrawalRequest, error) {
	var req *models.WithdrawalRequest
	err := s.uow.RunInTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		req, err = tx.GetWithdrawalRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.WithdrawalPending {
			return errs.NewStateConflictError(errs.ReasonRequestNotPending, "withdrawal request is already "+req.Status)
		}
		now := s.ledger.clockNow()
		req.Status = models.WithdrawalRejected
		req.ProcessedAt = &now
		req.ProcessedBy = actor.Label()
		req.ResponseNote = note
		req.UpdatedAt = now
		return tx.SaveWithdrawalRequest(req)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("withdrawal rejected", "request_id", requestID, "plan_id", req.PlanID)
	return req, nil
}

// ListRequests returns requests with the given status, pending when empty.
func (s *withdrawalService) ListRequests(ctx context.Context, status string) ([]*models.WithdrawalRequest, error) {
	switch status {
	case "":
		status = models.WithdrawalPending
	case "all":
		status = ""
	case models.WithdrawalPending, models.WithdrawalApproved, models.WithdrawalRejected:
	default:
		return nil, errs.NewValidationError("invalid withdrawal status: " + status)
	}
	return s.withdrawals.ListWithdrawalsByStatus(ctx, status)
}
