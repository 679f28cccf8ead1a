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

func newPlanTestHandlers() (*planHandlers, *stubResponseHandler, *stubSavingsService, *stubLoanService, *stubWithdrawalService) {
	resp := &stubResponseHandler{}
	savings := &stubSavingsService{}
	loans := &stubLoanService{}
	withdrawals := &stubWithdrawalService{}
	h := NewPlanHandlers(&Deps{
		ResponseHandler: resp,
		SavingsSvc:      savings,
		LoanSvc:         loans,
		WithdrawalSvc:   withdrawals,
	})
	return h, resp, savings, loans, withdrawals
}

func TestCreatePlan_OK(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()
	savings.plan = &models.SavingsPlan{ID: "plan-1"}

	body := `{"customerId":"cust-1","planName":"Rent","dailyContribution":200,"maintenanceFee":50}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	req = withActor(req, testOfficer)
	rr := httptest.NewRecorder()
	h.CreatePlan(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201 success, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if savings.lastActor != testOfficer {
		t.Fatalf("service got actor %+v", savings.lastActor)
	}
	if savings.lastCreate.CustomerID != "cust-1" || savings.lastCreate.DailyContribution != 200 {
		t.Fatalf("unexpected request: %+v", savings.lastCreate)
	}
	if savings.lastCreate.MaintenanceFee == nil || *savings.lastCreate.MaintenanceFee != 50 {
		t.Fatalf("maintenanceFee not decoded: %+v", savings.lastCreate.MaintenanceFee)
	}
}

func TestCreatePlan_InvalidJSON(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader("{not-json"))
	rr := httptest.NewRecorder()
	h.CreatePlan(rr, req)

	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
	if savings.lastCreate.CustomerID != "" {
		t.Fatalf("service called on invalid JSON")
	}
}

func TestGetPlan_ServiceError(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()
	savings.err = errs.NewNotFoundError("savings plan not found")

	req := httptest.NewRequest(http.MethodGet, "/plans/plan-9", nil)
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-9")
	rr := httptest.NewRecorder()
	h.GetPlan(rr, req)

	if savings.lastPlanID != "plan-9" {
		t.Fatalf("service got planId %q", savings.lastPlanID)
	}
	if !resp.handleErrorCalled || !errors.Is(resp.handleError, savings.err) {
		t.Fatalf("expected service error to be handled, got %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on service error")
	}
}

func TestUpdatePlanStatus_PassesStatus(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()
	savings.plan = &models.SavingsPlan{ID: "plan-1", Status: models.PlanStatusClosed}

	req := httptest.NewRequest(http.MethodPatch, "/plans/plan-1", strings.NewReader(`{"status":"closed"}`))
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	rr := httptest.NewRecorder()
	h.UpdatePlanStatus(rr, req)

	if savings.lastStatus != models.PlanStatusClosed || savings.lastPlanID != "plan-1" {
		t.Fatalf("unexpected service call: status=%q plan=%q", savings.lastStatus, savings.lastPlanID)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.writeSuccessStatus)
	}
}

func TestRecordDeposit_EmptyBodyUsesDefaults(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()
	savings.deposit = dto.DepositResult{Plan: &models.SavingsPlan{ID: "plan-1"}}

	req := httptest.NewRequest(http.MethodPost, "/plans/plan-1/deposits", http.NoBody)
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	rr := httptest.NewRecorder()
	h.RecordDeposit(rr, req)

	if resp.handleErrorCalled {
		t.Fatalf("unexpected error: %v", resp.handleError)
	}
	if savings.lastDeposit.Amount != nil {
		t.Fatalf("amount should be omitted, got %v", *savings.lastDeposit.Amount)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.writeSuccessStatus)
	}
}

func TestRecordDeposit_DecodesAmount(t *testing.T) {
	h, _, savings, _, _ := newPlanTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/plans/plan-1/deposits", strings.NewReader(`{"amount":300,"narration":"three days"}`))
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.RecordDeposit(httptest.NewRecorder(), req)

	if savings.lastDeposit.Amount == nil || *savings.lastDeposit.Amount != 300 || savings.lastDeposit.Narration != "three days" {
		t.Fatalf("unexpected deposit request: %+v", savings.lastDeposit)
	}
}

func TestDirectWithdrawal_Forbidden(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/plans/plan-1/withdrawals", strings.NewReader(`{"amount":100}`))
	req = withChiParam(withActor(req, testAdmin), "planId", "plan-1")
	h.DirectWithdrawal(httptest.NewRecorder(), req)

	var fe *errs.ForbiddenError
	if !errors.As(resp.handleError, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", resp.handleError)
	}
	if savings.lastPlanID != "" {
		t.Fatalf("direct withdrawal reached the service")
	}
}

func TestRequestWithdrawal_OK(t *testing.T) {
	h, resp, _, _, withdrawals := newPlanTestHandlers()
	withdrawals.request = &models.WithdrawalRequest{ID: "req-1"}

	req := httptest.NewRequest(http.MethodPost, "/plans/plan-1/withdrawals/request", strings.NewReader(`{"amount":250,"narration":"school fees"}`))
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.RequestWithdrawal(httptest.NewRecorder(), req)

	if withdrawals.lastInput.Amount != 250 || withdrawals.lastPlanID != "plan-1" {
		t.Fatalf("unexpected service call: %+v %q", withdrawals.lastInput, withdrawals.lastPlanID)
	}
	if resp.writeSuccessStatus != http.StatusCreated || resp.writeSuccessData != withdrawals.request {
		t.Fatalf("unexpected success: %d %v", resp.writeSuccessStatus, resp.writeSuccessData)
	}
}

func TestListEntries_ParsesPaging(t *testing.T) {
	h, _, savings, _, _ := newPlanTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/plans/plan-1/entries?page=3&limit=15", nil)
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.ListEntries(httptest.NewRecorder(), req)

	if savings.lastPage != 3 || savings.lastLimit != 15 {
		t.Fatalf("page=%d limit=%d, want 3 and 15", savings.lastPage, savings.lastLimit)
	}

	req = httptest.NewRequest(http.MethodGet, "/plans/plan-1/entries?page=abc", nil)
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.ListEntries(httptest.NewRecorder(), req)

	if savings.lastPage != 0 || savings.lastLimit != 0 {
		t.Fatalf("invalid paging should fall back to defaults, got page=%d limit=%d", savings.lastPage, savings.lastLimit)
	}
}

func TestListWithdrawalRequests_OK(t *testing.T) {
	h, resp, savings, _, _ := newPlanTestHandlers()
	savings.requests = []*models.WithdrawalRequest{{ID: "req-1"}}

	req := httptest.NewRequest(http.MethodGet, "/plans/plan-1/withdrawals/requests", nil)
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.ListWithdrawalRequests(httptest.NewRecorder(), req)

	if savings.lastPlanID != "plan-1" || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("unexpected call: plan=%q status=%d", savings.lastPlanID, resp.writeSuccessStatus)
	}
}

func TestRequestLoan_DecodesGuarantor(t *testing.T) {
	h, resp, _, loans, _ := newPlanTestHandlers()
	loans.plan = &models.SavingsPlan{ID: "plan-1"}

	body := `{"guarantor":{"name":"Ada Obi","phone":"0800"},"customerSignature":"sig"}`
	req := httptest.NewRequest(http.MethodPost, "/plans/plan-1/loan/request", strings.NewReader(body))
	req = withChiParam(withActor(req, testOfficer), "planId", "plan-1")
	h.RequestLoan(httptest.NewRecorder(), req)

	if loans.lastInput.Guarantor == nil || loans.lastInput.Guarantor.Name != "Ada Obi" || loans.lastInput.Signature != "sig" {
		t.Fatalf("unexpected loan input: %+v", loans.lastInput)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.writeSuccessStatus)
	}
}
