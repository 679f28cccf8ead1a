package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/errs"
	"github.com/GregMSThompson/savings-backend/internal/middleware"
	"github.com/GregMSThompson/savings-backend/internal/response"
)

type planHandlers struct {
	ResponseHandler response.ResponseHandler
	SavingsSvc      SavingsService
	LoanSvc         LoanService
	WithdrawalSvc   WithdrawalService
}

func NewPlanHandlers(deps *Deps) *planHandlers {
	return &planHandlers{
		ResponseHandler: deps.ResponseHandler,
		SavingsSvc:      deps.SavingsSvc,
		LoanSvc:         deps.LoanSvc,
		WithdrawalSvc:   deps.WithdrawalSvc,
	}
}

func (h *planHandlers) PlanRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreatePlan)
	r.Get("/{planId}", h.GetPlan)
	r.Patch("/{planId}", h.UpdatePlanStatus)
	r.Post("/{planId}/deposits", h.RecordDeposit)
	r.Post("/{planId}/withdrawals", h.DirectWithdrawal)
	r.Post("/{planId}/withdrawals/request", h.RequestWithdrawal)
	r.Get("/{planId}/withdrawals/requests", h.ListWithdrawalRequests)
	r.Get("/{planId}/entries", h.ListEntries)
	r.Post("/{planId}/loan/request", h.RequestLoan)
	return r
}

func (h *planHandlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	plan, err := h.SavingsSvc.CreatePlan(r.Context(), middleware.ActorFrom(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, plan)
}

func (h *planHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	detail, err := h.SavingsSvc.GetPlan(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, detail)
}

func (h *planHandlers) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePlanStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	plan, err := h.SavingsSvc.UpdatePlanStatus(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plan)
}

func (h *planHandlers) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.SavingsSvc.RecordDeposit(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}

// DirectWithdrawal is kept so older clients get a clear answer. Officers must
// file a withdrawal request instead.
func (h *planHandlers) DirectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.HandleError(w, r, errs.NewForbiddenError(
		"direct withdrawal processing is disabled, submit a withdrawal request for admin approval"))
}

func (h *planHandlers) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var in dto.WithdrawalInput
	if err := decodeJSON(r, &in); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := h.WithdrawalSvc.CreateRequest(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, req)
}

func (h *planHandlers) ListWithdrawalRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.SavingsSvc.ListWithdrawalRequestsForPlan(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reqs)
}

func (h *planHandlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.SavingsSvc.ListEntries(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), page, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *planHandlers) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var in dto.LoanRequestInput
	if err := decodeJSON(r, &in); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	plan, err := h.LoanSvc.RequestLoan(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plan)
}
