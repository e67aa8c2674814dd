package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/audit"
	"pts/internal/domain/auth"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

const exportLimit = 10000

type Lister interface {
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Lister
	log     *zap.Logger
}

func NewHandler(service Lister, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Service: service, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RolePTSOfficer, auth.RoleHeadHR))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

func filterFrom(r *http.Request) audit.Filter {
	q := r.URL.Query()
	return audit.Filter{Action: q.Get("action"), EntityType: q.Get("entityType"), EntityID: q.Get("entityId")}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	events, err := h.Service.List(r.Context(), filterFrom(r), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, events, shared.RequestID(r))
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.List(r.Context(), filterFrom(r), exportLimit, 0)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_id", "action", "entity_type", "entity_id", "request_id", "created_at"}); err != nil {
		h.log.Warn("audit export header failed", zap.Error(err))
	}
	for _, evt := range events {
		actor := ""
		if evt.ActorID != nil {
			actor = strconv.FormatInt(*evt.ActorID, 10)
		}
		row := []string{strconv.FormatInt(evt.ID, 10), actor, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.CreatedAt.Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			h.log.Warn("audit export row failed", zap.Int64("eventId", evt.ID), zap.Error(err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.log.Warn("audit export flush failed", zap.Error(err))
	}
}
