package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/savings-backend/internal/handlers"
	"github.com/GregMSThompson/savings-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).RequestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := middleware.NewMiddleware(deps.Firebase, deps.ResponseHandler)
	plans := handlers.NewPlanHandlers(deps)
	admin := handlers.NewAdminHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)
		r.Mount("/plans", plans.PlanRoutes())
		r.With(auth.RequireAdmin).Mount("/admin", admin.AdminRoutes())
	})
	return r
}
