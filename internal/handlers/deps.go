package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/middleware"
	"github.com/GregMSThompson/savings-backend/internal/models"
	"github.com/GregMSThompson/savings-backend/internal/response"
)

type SavingsService interface {
	CreatePlan(ctx context.Context, actor models.Actor, req dto.CreatePlanRequest) (*models.SavingsPlan, error)
	GetPlan(ctx context.Context, actor models.Actor, planID string) (dto.PlanDetail, error)
	UpdatePlanStatus(ctx context.Context, actor models.Actor, planID, status string) (*models.SavingsPlan, error)
	RecordDeposit(ctx context.Context, actor models.Actor, planID string, req dto.DepositRequest) (dto.DepositResult, error)
	RecordWithdrawal(ctx context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (dto.WithdrawalResult, error)
	ListEntries(ctx context.Context, actor models.Actor, planID string, page, limit int) (dto.EntryPage, error)
	ListWithdrawalRequestsForPlan(ctx context.Context, actor models.Actor, planID string) ([]*models.WithdrawalRequest, error)
}

type LoanService interface {
	RequestLoan(ctx context.Context, actor models.Actor, planID string, in dto.LoanRequestInput) (*models.SavingsPlan, error)
	ApproveLoan(ctx context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error)
	RejectLoan(ctx context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error)
	ListPendingLoans(ctx context.Context) ([]*models.SavingsPlan, error)
	ListActiveLoans(ctx context.Context) ([]*models.SavingsPlan, error)
}

type WithdrawalService interface {
	CreateRequest(ctx context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, actor models.Actor, requestID string) (dto.WithdrawalDecision, error)
	Reject(ctx context.Context, actor models.Actor, requestID, note string) (*models.WithdrawalRequest, error)
	ListRequests(ctx context.Context, status string) ([]*models.WithdrawalRequest, error)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	SavingsSvc      SavingsService
	LoanSvc         LoanService
	WithdrawalSvc   WithdrawalService
	Firebase        middleware.TokenVerifier
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return errs.NewValidationError("invalid JSON body: " + err.Error())
	}
	return nil
}
