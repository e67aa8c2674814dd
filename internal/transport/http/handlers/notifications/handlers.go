package notificationshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/notifications"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]notifications.Notification, int, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
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
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/read-all", h.handleMarkAllRead)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	unread := r.URL.Query().Get("unread") == "true"
	items, total, err := h.Service.List(r.Context(), actor.UserID, unread, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Page(w, items, page.Meta(total), shared.RequestID(r))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	id, ok := shared.PathID(w, r, "notificationID")
	if !ok {
		return
	}
	if err := h.Service.MarkRead(r.Context(), actor.UserID, id); err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, map[string]any{"id": id, "read": true}, shared.RequestID(r))
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	n, err := h.Service.MarkAllRead(r.Context(), actor.UserID)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, map[string]int64{"updated": n}, shared.RequestID(r))
}
