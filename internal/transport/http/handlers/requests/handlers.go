package requestshandler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pts/internal/domain/apperr"
	"pts/internal/domain/auth"
	"pts/internal/domain/request"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, actor auth.Actor, in request.CreateInput) (request.Request, error)
	Get(ctx context.Context, id int64) (request.Request, error)
	List(ctx context.Context, f request.ListFilter) ([]request.Request, error)
	ListPending(ctx context.Context, actor auth.Actor, limit, offset int) ([]request.Request, error)
	ListActions(ctx context.Context, requestID int64) ([]request.Action, error)
	ActionSignature(ctx context.Context, requestID, actionID int64) ([]byte, error)
	SaveSignature(ctx context.Context, actor auth.Actor, image []byte) error
	Submit(ctx context.Context, id int64, actor auth.Actor) (request.Request, error)
	Approve(ctx context.Context, id int64, actor auth.Actor, comment string) (request.Request, error)
	Reject(ctx context.Context, id int64, actor auth.Actor, comment string) (request.Request, error)
	Return(ctx context.Context, id int64, actor auth.Actor, comment string) (request.Request, error)
	Cancel(ctx context.Context, id int64, actor auth.Actor) (request.Request, error)
	BatchApprove(ctx context.Context, ids []int64, actor auth.Actor, comment string) (request.BatchResult, error)
}

type Handler struct {
	Service Service
	Limit   func(http.Handler) http.Handler
	log     *zap.Logger
}

// NewHandler wires the request routes. limit guards batch approval; nil disables it.
func NewHandler(service Service, limit func(http.Handler) http.Handler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{Service: service, Limit: limit, log: log}
}

type createPayload struct {
	CitizenID       string                 `json:"citizenId" validate:"omitempty,len=13,numeric"`
	PersonnelType   string                 `json:"personnelType" validate:"max=50"`
	RequestType     string                 `json:"requestType" validate:"max=30"`
	RequestedAmount *decimal.Decimal       `json:"requestedAmount"`
	EffectiveDate   string                 `json:"effectiveDate" validate:"omitempty,datetime=2006-01-02"`
	ProfessionCode  string                 `json:"professionCode" validate:"max=30"`
	WorkAttributes  request.WorkAttributes `json:"workAttributes"`
	SubmissionData  json.RawMessage        `json:"submissionData"`
}

type commentPayload struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type batchPayload struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1,max=200,dive,gt=0"`
	Comment    string  `json:"comment" validate:"max=2000"`
}

type signaturePayload struct {
	Image string `json:"image" validate:"required,base64"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Put("/me/signature", h.handleSaveSignature)
	r.Route("/requests", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.With(middleware.RequireRole(auth.RoleHeadDept, auth.RolePTSOfficer, auth.RoleHeadHR, auth.RoleDirector, auth.RoleHeadFinance)).
			Get("/pending", h.handlePending)
		r.With(middleware.RequireRole(auth.RoleDirector, auth.RoleHeadFinance), h.Limit).
			Post("/batch-approve", h.handleBatchApprove)
		r.Get("/{requestID}", h.handleGet)
		r.Get("/{requestID}/actions", h.handleActions)
		r.Get("/{requestID}/actions/{actionID}/signature", h.handleActionSignature)
		r.Post("/{requestID}/submit", h.handleSubmit)
		r.Post("/{requestID}/cancel", h.handleCancel)
		r.Post("/{requestID}/approve", h.commentAction(h.Service.Approve))
		r.Post("/{requestID}/reject", h.commentAction(h.Service.Reject))
		r.Post("/{requestID}/return", h.commentAction(h.Service.Return))
	})
}

func actorOr401(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
	}
	return actor, ok
}

// loadVisible fetches a request the actor may see: its owner or anyone in the approval chain.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request, actor auth.Actor, id int64) (request.Request, bool) {
	req, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return request.Request{}, false
	}
	if actor.Role == auth.RoleUser && req.UserID != actor.UserID {
		shared.WriteError(w, r, h.log, apperr.Forbidden("request %d belongs to another user", id))
		return request.Request{}, false
	}
	return req, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var payload createPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	var effective *time.Time
	if payload.EffectiveDate != "" {
		parsed, err := shared.ParseDate(payload.EffectiveDate)
		if err != nil {
			shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "effectiveDate", Reason: "must be a date in YYYY-MM-DD format"}})
			return
		}
		effective = &parsed
	}
	if payload.CitizenID != "" && payload.CitizenID != actor.CitizenID && actor.Role == auth.RoleUser {
		shared.WriteError(w, r, h.log, apperr.Forbidden("cannot file a request for another citizen"))
		return
	}

	created, err := h.Service.Create(r.Context(), actor, request.CreateInput{
		CitizenID:       payload.CitizenID,
		PersonnelType:   payload.PersonnelType,
		RequestType:     payload.RequestType,
		RequestedAmount: payload.RequestedAmount,
		EffectiveDate:   effective,
		ProfessionCode:  payload.ProfessionCode,
		WorkAttributes:  payload.WorkAttributes,
		SubmissionData:  payload.SubmissionData,
	})
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Created(w, created, shared.RequestID(r))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	filter := request.ListFilter{
		Status: request.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if actor.Role == auth.RoleUser || r.URL.Query().Get("scope") != "all" {
		filter.UserID = &actor.UserID
	}
	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.ListPending(r.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, items, shared.RequestID(r))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := shared.PathID(w, r, "requestID")
	if !ok {
		return
	}
	if req, ok := h.loadVisible(w, r, actor, id); ok {
		api.Success(w, req, shared.RequestID(r))
	}
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := shared.PathID(w, r, "requestID")
	if !ok {
		return
	}
	if _, ok := h.loadVisible(w, r, actor, id); !ok {
		return
	}
	actions, err := h.Service.ListActions(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, actions, shared.RequestID(r))
}

func (h *Handler) handleActionSignature(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := shared.PathID(w, r, "requestID")
	if !ok {
		return
	}
	actionID, ok := shared.PathID(w, r, "actionID")
	if !ok {
		return
	}
	if _, ok := h.loadVisible(w, r, actor, id); !ok {
		return
	}
	image, err := h.Service.ActionSignature(r.Context(), id, actionID)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(image))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(image)
}

func (h *Handler) handleSaveSignature(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var payload signaturePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	image, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "image", Reason: "must be base64"}})
		return
	}
	if err := h.Service.SaveSignature(r.Context(), actor, image); err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, map[string]any{"saved": true, "bytes": len(image)}, shared.RequestID(r))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, h.Service.Submit)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.ownerAction(w, r, h.Service.Cancel)
}

func (h *Handler) ownerAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, auth.Actor) (request.Request, error)) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	id, ok := shared.PathID(w, r, "requestID")
	if !ok {
		return
	}
	updated, err := fn(r.Context(), id, actor)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, updated, shared.RequestID(r))
}

func (h *Handler) commentAction(fn func(context.Context, int64, auth.Actor, string) (request.Request, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorOr401(w, r)
		if !ok {
			return
		}
		id, ok := shared.PathID(w, r, "requestID")
		if !ok {
			return
		}
		var payload commentPayload
		if !shared.DecodeJSON(w, r, &payload) {
			return
		}
		updated, err := fn(r.Context(), id, actor, payload.Comment)
		if err != nil {
			shared.WriteError(w, r, h.log, err)
			return
		}
		api.Success(w, updated, shared.RequestID(r))
	}
}

func (h *Handler) handleBatchApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	var payload batchPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.BatchApprove(r.Context(), payload.RequestIDs, actor, payload.Comment)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, result, shared.RequestID(r))
}
