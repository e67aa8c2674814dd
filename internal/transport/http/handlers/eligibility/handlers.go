package eligibilityhandler

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/domain/eligibility"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type Service interface {
	ListRates(ctx context.Context) ([]eligibility.MasterRate, error)
	ListEligibilities(ctx context.Context, citizenID string) ([]eligibility.Eligibility, error)
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

var citizenIDPattern = regexp.MustCompile(`^[0-9]{13}$`)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/rates", h.handleListRates)
	r.Get("/eligibilities/{citizenID}", h.handleListEligibilities)
}

func (h *Handler) handleListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Service.ListRates(r.Context())
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, rates, shared.RequestID(r))
}

func (h *Handler) handleListEligibilities(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	citizenID := chi.URLParam(r, "citizenID")
	if !citizenIDPattern.MatchString(citizenID) {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "citizenId", Reason: "must be 13 digits"}})
		return
	}
	if actor.Role == auth.RoleUser && actor.CitizenID != citizenID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", shared.RequestID(r))
		return
	}

	items, err := h.Service.ListEligibilities(r.Context(), citizenID)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}
