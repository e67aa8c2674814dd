package reportshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/domain/reports"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type Service interface {
	Dashboard(ctx context.Context) (reports.Dashboard, error)
	JobRuns(ctx context.Context, filter reports.JobRunFilter, limit, offset int) ([]reports.JobRun, int, error)
}

type Handler struct {
	Service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RolePTSOfficer, auth.RoleHeadHR, auth.RoleDirector, auth.RoleHeadFinance))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/jobs", h.handleJobRuns)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, dashboard, shared.RequestID(r))
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	q := r.URL.Query()
	filter := reports.JobRunFilter{JobType: q.Get("jobType"), Status: q.Get("status")}
	if raw := q.Get("startedFrom"); raw != "" {
		from, err := shared.ParseDate(raw)
		if err != nil {
			shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "startedFrom", Reason: "must be a date"}})
			return
		}
		filter.StartedFrom = &from
	}

	runs, total, err := h.Service.JobRuns(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Page(w, runs, page.Meta(total), shared.RequestID(r))
}
