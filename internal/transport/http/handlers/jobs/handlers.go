package jobshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/platform/jobs"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type Runner interface {
	RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error)
	RecalculateCurrentPeriod(ctx context.Context) (any, error)
}

type Handler struct {
	Jobs  Runner
	Limit func(http.Handler) http.Handler
	log   *zap.Logger
}

func NewHandler(runner Runner, limit func(http.Handler) http.Handler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{Jobs: runner, Limit: limit, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RolePTSOfficer), h.Limit).Post("/jobs/period-recalculation", h.handleRecalculate)
}

// handleRecalculate runs the scheduled recalculation inline and records it as a job run.
func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobPeriodRecalc, h.Jobs.RecalculateCurrentPeriod)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, details, shared.RequestID(r))
}
