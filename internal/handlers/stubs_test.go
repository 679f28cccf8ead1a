package handlers

import (
	"context"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/models"
)

type stubSavingsService struct {
	plan       *models.SavingsPlan
	detail     dto.PlanDetail
	deposit    dto.DepositResult
	withdrawal dto.WithdrawalResult
	page       dto.EntryPage
	requests   []*models.WithdrawalRequest
	err        error

	lastActor   models.Actor
	lastPlanID  string
	lastCreate  dto.CreatePlanRequest
	lastStatus  string
	lastDeposit dto.DepositRequest
	lastInput   dto.WithdrawalInput
	lastPage    int
	lastLimit   int
}

func (s *stubSavingsService) CreatePlan(_ context.Context, actor models.Actor, req dto.CreatePlanRequest) (*models.SavingsPlan, error) {
	s.lastActor, s.lastCreate = actor, req
	return s.plan, s.err
}

func (s *stubSavingsService) GetPlan(_ context.Context, actor models.Actor, planID string) (dto.PlanDetail, error) {
	s.lastActor, s.lastPlanID = actor, planID
	return s.detail, s.err
}

func (s *stubSavingsService) UpdatePlanStatus(_ context.Context, actor models.Actor, planID, status string) (*models.SavingsPlan, error) {
	s.lastActor, s.lastPlanID, s.lastStatus = actor, planID, status
	return s.plan, s.err
}

func (s *stubSavingsService) RecordDeposit(_ context.Context, actor models.Actor, planID string, req dto.DepositRequest) (dto.DepositResult, error) {
	s.lastActor, s.lastPlanID, s.lastDeposit = actor, planID, req
	return s.deposit, s.err
}

func (s *stubSavingsService) RecordWithdrawal(_ context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (dto.WithdrawalResult, error) {
	s.lastActor, s.lastPlanID, s.lastInput = actor, planID, in
	return s.withdrawal, s.err
}

func (s *stubSavingsService) ListEntries(_ context.Context, actor models.Actor, planID string, page, limit int) (dto.EntryPage, error) {
	s.lastActor, s.lastPlanID, s.lastPage, s.lastLimit = actor, planID, page, limit
	return s.page, s.err
}

func (s *stubSavingsService) ListWithdrawalRequestsForPlan(_ context.Context, actor models.Actor, planID string) ([]*models.WithdrawalRequest, error) {
	s.lastActor, s.lastPlanID = actor, planID
	return s.requests, s.err
}

type stubLoanService struct {
	plan    *models.SavingsPlan
	pending []*models.SavingsPlan
	active  []*models.SavingsPlan
	err     error

	lastActor  models.Actor
	lastPlanID string
	lastInput  dto.LoanRequestInput
}

func (s *stubLoanService) RequestLoan(_ context.Context, actor models.Actor, planID string, in dto.LoanRequestInput) (*models.SavingsPlan, error) {
	s.lastActor, s.lastPlanID, s.lastInput = actor, planID, in
	return s.plan, s.err
}

func (s *stubLoanService) ApproveLoan(_ context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error) {
	s.lastActor, s.lastPlanID = actor, planID
	return s.plan, s.err
}

func (s *stubLoanService) RejectLoan(_ context.Context, actor models.Actor, planID string) (*models.SavingsPlan, error) {
	s.lastActor, s.lastPlanID = actor, planID
	return s.plan, s.err
}

func (s *stubLoanService) ListPendingLoans(_ context.Context) ([]*models.SavingsPlan, error) {
	return s.pending, s.err
}

func (s *stubLoanService) ListActiveLoans(_ context.Context) ([]*models.SavingsPlan, error) {
	return s.active, s.err
}

type stubWithdrawalService struct {
	request  *models.WithdrawalRequest
	decision dto.WithdrawalDecision
	list     []*models.WithdrawalRequest
	err      error

	lastActor     models.Actor
	lastPlanID    string
	lastRequestID string
	lastInput     dto.WithdrawalInput
	lastNote      string
	lastStatus    string
}

func (s *stubWithdrawalService) CreateRequest(_ context.Context, actor models.Actor, planID string, in dto.WithdrawalInput) (*models.WithdrawalRequest, error) {
	s.lastActor, s.lastPlanID, s.lastInput = actor, planID, in
	return s.request, s.err
}

func (s *stubWithdrawalService) Approve(_ context.Context, actor models.Actor, requestID string) (dto.WithdrawalDecision, error) {
	s.lastActor, s.lastRequestID = actor, requestID
	return s.decision, s.err
}

func (s *stubWithdrawalService) Reject(_ context.Context, actor models.Actor, requestID, note string) (*models.WithdrawalRequest, error) {
	s.lastActor, s.lastRequestID, s.lastNote = actor, requestID, note
	return s.request, s.err
}

func (s *stubWithdrawalService) ListRequests(_ context.Context, status string) ([]*models.WithdrawalRequest, error) {
	s.lastStatus = status
	return s.list, s.err
}
