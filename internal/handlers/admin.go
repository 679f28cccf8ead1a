package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/savings-backend/internal/dto"
	"github.com/GregMSThompson/savings-backend/internal/middleware"
	"github.com/GregMSThompson/savings-backend/internal/response"
)

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	SavingsSvc      SavingsService
	LoanSvc         LoanService
	WithdrawalSvc   WithdrawalService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		SavingsSvc:      deps.SavingsSvc,
		LoanSvc:         deps.LoanSvc,
		WithdrawalSvc:   deps.WithdrawalSvc,
	}
}

// AdminRoutes expects the caller to mount it behind the admin role check.
func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/loans/pending", h.ListPendingLoans)
	r.Get("/loans/active", h.ListActiveLoans)
	r.Put("/loans/{planId}/approve", h.ApproveLoan)
	r.Put("/loans/{planId}/reject", h.RejectLoan)
	r.Get("/withdrawals", h.ListWithdrawalRequests)
	r.Put("/withdrawals/{requestId}/approve", h.ApproveWithdrawal)
	r.Put("/withdrawals/{requestId}/reject", h.RejectWithdrawal)
	r.Post("/plans/{planId}/withdrawals", h.RecordWithdrawal)
	return r
}

func (h *adminHandlers) ListPendingLoans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.LoanSvc.ListPendingLoans(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plans)
}

func (h *adminHandlers) ListActiveLoans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.LoanSvc.ListActiveLoans(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plans)
}

func (h *adminHandlers) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.LoanSvc.ApproveLoan(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plan)
}

func (h *adminHandlers) RejectLoan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.LoanSvc.RejectLoan(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, plan)
}

func (h *adminHandlers) ListWithdrawalRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.WithdrawalSvc.ListRequests(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reqs)
}

func (h *adminHandlers) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	decision, err := h.WithdrawalSvc.Approve(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "requestId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, decision)
}

func (h *adminHandlers) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	var in dto.RejectWithdrawalInput
	if err := decodeJSON(r, &in); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := h.WithdrawalSvc.Reject(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "requestId"), in.Note)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.WithdrawalDecision{Request: req})
}

func (h *adminHandlers) RecordWithdrawal(w http.ResponseWriter, r *http.Request) {
	var in dto.WithdrawalInput
	if err := decodeJSON(r, &in); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.SavingsSvc.RecordWithdrawal(r.Context(), middleware.ActorFrom(r.Context()), chi.URLParam(r, "planId"), in)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}
