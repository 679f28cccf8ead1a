package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/models"
)

func newAdminTestHandlers() (*adminHandlers, *stubResponseHandler, *stubSavingsService, *stubLoanService, *stubWithdrawalService) {
	resp := &stubResponseHandler{}
	savings := &stubSavingsService{}
	loans := &stubLoanService{}
	withdrawals := &stubWithdrawalService{}
	h := NewAdminHandlers(&Deps{
		ResponseHandler: resp,
		SavingsSvc:      savings,
		LoanSvc:         loans,
		WithdrawalSvc:   withdrawals,
	})
	return h, resp, savings, loans, withdrawals
}

func TestListPendingLoans_OK(t *testing.T) {
	h, resp, _, loans, _ := newAdminTestHandlers()
	loans.pending = []*models.SavingsPlan{{ID: "plan-1"}}

	req := withActor(httptest.NewRequest(http.MethodGet, "/admin/loans/pending", nil), testAdmin)
	h.ListPendingLoans(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200 success")
	}
}

func TestListActiveLoans_OK(t *testing.T) {
	h, resp, _, loans, _ := newAdminTestHandlers()
	loans.active = []*models.SavingsPlan{{ID: "plan-7", IsLoan: true, LoanStatus: models.LoanStatusActive}}

	req := withActor(httptest.NewRequest(http.MethodGet, "/admin/loans/active", nil), testAdmin)
	h.ListActiveLoans(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200 success")
	}
	got, ok := resp.writeSuccessData.([]*models.SavingsPlan)
	if !ok || len(got) != 1 || got[0].ID != "plan-7" {
		t.Fatalf("unexpected success data: %v", resp.writeSuccessData)
	}
}

func TestApproveLoan_PassesActor(t *testing.T) {
	h, resp, _, loans, _ := newAdminTestHandlers()
	loans.plan = &models.SavingsPlan{ID: "plan-1", LoanStatus: models.LoanStatusApproved}

	req := httptest.NewRequest(http.MethodPut, "/admin/loans/plan-1/approve", nil)
	req = withChiParam(withActor(req, testAdmin), "planId", "plan-1")
	h.ApproveLoan(httptest.NewRecorder(), req)

	if loans.lastActor != testAdmin || loans.lastPlanID != "plan-1" {
		t.Fatalf("unexpected call: %+v %q", loans.lastActor, loans.lastPlanID)
	}
	if resp.writeSuccessData != loans.plan {
		t.Fatalf("unexpected success data: %v", resp.writeSuccessData)
	}
}

func TestRejectLoan_Conflict(t *testing.T) {
	h, resp, _, loans, _ := newAdminTestHandlers()
	loans.err = errs.NewStateConflictError(errs.ReasonNoPendingRequest, "no pending loan request")

	req := httptest.NewRequest(http.MethodPut, "/admin/loans/plan-1/reject", nil)
	req = withChiParam(withActor(req, testAdmin), "planId", "plan-1")
	h.RejectLoan(httptest.NewRecorder(), req)

	if !errs.HasReason(resp.handleError, errs.ReasonNoPendingRequest) {
		t.Fatalf("expected NoPendingRequest, got %v", resp.handleError)
	}
}

func TestListWithdrawalRequests_StatusFilter(t *testing.T) {
	h, _, _, _, withdrawals := newAdminTestHandlers()

	req := withActor(httptest.NewRequest(http.MethodGet, "/admin/withdrawals?status=approved", nil), testAdmin)
	h.ListWithdrawalRequests(httptest.NewRecorder(), req)

	if withdrawals.lastStatus != models.WithdrawalApproved {
		t.Fatalf("status = %q, want approved", withdrawals.lastStatus)
	}
}

func TestApproveWithdrawal_InsufficientFunds(t *testing.T) {
	h, resp, _, _, withdrawals := newAdminTestHandlers()
	withdrawals.err = errs.NewInsufficientFundsError(500, 400)

	req := httptest.NewRequest(http.MethodPut, "/admin/withdrawals/req-1/approve", nil)
	req = withChiParam(withActor(req, testAdmin), "requestId", "req-1")
	h.ApproveWithdrawal(httptest.NewRecorder(), req)

	var ie *errs.InsufficientFundsError
	if withdrawals.lastRequestID != "req-1" || !errors.As(resp.handleError, &ie) {
		t.Fatalf("unexpected result: id=%q err=%v", withdrawals.lastRequestID, resp.handleError)
	}
}

func TestRejectWithdrawal_PassesNote(t *testing.T) {
	h, resp, _, _, withdrawals := newAdminTestHandlers()
	withdrawals.request = &models.WithdrawalRequest{ID: "req-1", Status: models.WithdrawalRejected}

	req := httptest.NewRequest(http.MethodPut, "/admin/withdrawals/req-1/reject", strings.NewReader(`{"note":"not verified"}`))
	req = withChiParam(withActor(req, testAdmin), "requestId", "req-1")
	h.RejectWithdrawal(httptest.NewRecorder(), req)

	if withdrawals.lastNote != "not verified" {
		t.Fatalf("note = %q", withdrawals.lastNote)
	}
	decision, ok := resp.writeSuccessData.(dto.WithdrawalDecision)
	if !ok || decision.Request != withdrawals.request {
		t.Fatalf("unexpected success data: %#v", resp.writeSuccessData)
	}
}

func TestAdminRecordWithdrawal_OK(t *testing.T) {
	h, resp, savings, _, _ := newAdminTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/admin/plans/plan-1/withdrawals", strings.NewReader(`{"amount":120}`))
	req = withChiParam(withActor(req, testAdmin), "planId", "plan-1")
	h.RecordWithdrawal(httptest.NewRecorder(), req)

	if savings.lastActor != testAdmin || savings.lastInput.Amount != 120 {
		t.Fatalf("unexpected call: %+v %+v", savings.lastActor, savings.lastInput)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.writeSuccessStatus)
	}
}
