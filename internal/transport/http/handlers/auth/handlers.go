package authhandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

const tokenTTL = 8 * time.Hour

type Handler struct {
	Secret string
	log    *zap.Logger
}

func NewHandler(secret string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Secret: secret, log: log}
}

type meResponse struct {
	UserID       int64     `json:"userId"`
	CitizenID    string    `json:"citizenId"`
	Role         auth.Role `json:"role"`
	ApprovalStep *int      `json:"approvalStep,omitempty"`
	BatchApprove bool      `json:"batchApprove"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", h.HandleMe)
		r.Post("/refresh", h.HandleRefresh)
	})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	resp := meResponse{UserID: actor.UserID, CitizenID: actor.CitizenID, Role: actor.Role}
	if step, ok := auth.StepForRole(actor.Role); ok {
		n := int(step)
		resp.ApprovalStep = &n
		resp.BatchApprove = auth.IsBatchStep(step)
	}
	api.Success(w, resp, shared.RequestID(r))
}

// HandleRefresh reissues a token for the caller. Identity itself comes from the upstream issuer.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: actor.UserID, CitizenID: actor.CitizenID, Role: actor.Role}, tokenTTL)
	if err != nil {
		h.log.Error("token refresh failed", zap.Int64("userId", actor.UserID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", shared.RequestID(r))
		return
	}
	api.Success(w, map[string]any{"token": token, "expiresIn": int(tokenTTL.Seconds())}, shared.RequestID(r))
}
