package payrollhandler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/domain/calc"
	"pts/internal/domain/payroll"
	"pts/internal/transport/http/api"
	"pts/internal/transport/http/middleware"
	"pts/internal/transport/http/shared"
)

type PeriodService interface {
	GetOrCreatePeriod(ctx context.Context, year, month int) (payroll.Period, error)
	GetPeriod(ctx context.Context, id int64) (payroll.Period, error)
	ListPeriods(ctx context.Context, limit, offset int) ([]payroll.Period, int, error)
	Transition(ctx context.Context, periodID int64, action payroll.Action, actor auth.Actor) (payroll.Period, error)
	ProcessPeriodCalculation(ctx context.Context, periodID int64) (payroll.CalculationSummary, error)
	ListPayouts(ctx context.Context, periodID int64) ([]payroll.Payout, error)
	GetPayout(ctx context.Context, periodID int64, citizenID string) (payroll.Payout, error)
}

type Exporter interface {
	PeriodRegisterXLSX(ctx context.Context, periodID int64) ([]byte, string, error)
	PayoutSlipPDF(ctx context.Context, periodID int64, citizenID string) ([]byte, string, error)
}

type Previewer interface {
	CalculateMonthly(ctx context.Context, citizenID string, year, month int) (calc.Result, error)
	CalculateRetroactive(ctx context.Context, citizenID string, year, month int, excludePeriodID int64) (calc.RetroResult, error)
}

type Handler struct {
	Periods PeriodService
	Exports Exporter
	Preview Previewer
	Limit   func(http.Handler) http.Handler
	log     *zap.Logger
	now     func() time.Time
}

func NewHandler(periods PeriodService, exports Exporter, preview Previewer, limit func(http.Handler) http.Handler, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{Periods: periods, Exports: exports, Preview: preview, Limit: limit, log: log, now: time.Now}
}

var citizenIDPattern = regexp.MustCompile(`^[0-9]{13}$`)

var staffRoles = []auth.Role{auth.RolePTSOfficer, auth.RoleHeadHR, auth.RoleDirector, auth.RoleHeadFinance}

type periodPayload struct {
	Year  int `json:"year" validate:"required,gte=2000,lte=2600"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

type transitionPayload struct {
	Action string `json:"action" validate:"required,oneof=SUBMIT APPROVE_HR APPROVE_DIRECTOR REJECT"`
}

type calculationPreview struct {
	CitizenID string           `json:"citizenId"`
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Monthly   calc.Result      `json:"monthly"`
	Retro     calc.RetroResult `json:"retroactive"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(staffRoles...)
	r.Route("/payroll", func(r chi.Router) {
		r.With(staff).Get("/periods", h.handleListPeriods)
		r.With(middleware.RequireRole(auth.RolePTSOfficer)).Post("/periods", h.handleGetOrCreatePeriod)
		r.With(staff).Get("/periods/{periodID}", h.handleGetPeriod)
		r.With(staff).Post("/periods/{periodID}/transition", h.handleTransition)
		r.With(middleware.RequireRole(auth.RolePTSOfficer), h.Limit).Post("/periods/{periodID}/calculate", h.handleCalculate)
		r.With(staff).Get("/periods/{periodID}/payouts", h.handleListPayouts)
		r.With(staff, h.Limit).Get("/periods/{periodID}/export/register", h.handleExportRegister)
		r.Get("/periods/{periodID}/payouts/{citizenID}", h.handleGetPayout)
		r.Get("/periods/{periodID}/payouts/{citizenID}/slip", h.handleDownloadSlip)
	})
	r.With(staff).Get("/calculations/{citizenID}", h.handlePreview)
}

func citizenParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	citizenID := strings.TrimSpace(chi.URLParam(r, "citizenID"))
	if !citizenIDPattern.MatchString(citizenID) {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "citizenId", Reason: "must be 13 digits"}})
		return "", false
	}
	return citizenID, true
}

// ownOrStaff lets a user read their own payout; everyone else needs a payroll role.
func ownOrStaff(w http.ResponseWriter, r *http.Request, citizenID string) bool {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return false
	}
	if actor.CitizenID == citizenID || actor.Role == auth.RoleAdmin {
		return true
	}
	for _, role := range staffRoles {
		if actor.Role == role {
			return true
		}
	}
	api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", shared.RequestID(r))
	return false
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 24, 120)
	periods, total, err := h.Periods.ListPeriods(r.Context(), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Page(w, periods, page.Meta(total), shared.RequestID(r))
}

func (h *Handler) handleGetOrCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var payload periodPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	period, err := h.Periods.GetOrCreatePeriod(r.Context(), payload.Year, payload.Month)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, period, shared.RequestID(r))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	period, err := h.Periods.GetPeriod(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, period, shared.RequestID(r))
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	var payload transitionPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	period, err := h.Periods.Transition(r.Context(), id, payroll.Action(payload.Action), actor)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, period, shared.RequestID(r))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	summary, err := h.Periods.ProcessPeriodCalculation(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, summary, shared.RequestID(r))
}

func (h *Handler) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	payouts, err := h.Periods.ListPayouts(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, payouts, shared.RequestID(r))
}

func (h *Handler) handleGetPayout(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	citizenID, ok := citizenParam(w, r)
	if !ok || !ownOrStaff(w, r, citizenID) {
		return
	}
	payout, err := h.Periods.GetPayout(r.Context(), id, citizenID)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, payout, shared.RequestID(r))
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	data, filename, err := h.Exports.PeriodRegisterXLSX(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, data)
}

func (h *Handler) handleDownloadSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.PathID(w, r, "periodID")
	if !ok {
		return
	}
	citizenID, ok := citizenParam(w, r)
	if !ok || !ownOrStaff(w, r, citizenID) {
		return
	}
	data, filename, err := h.Exports.PayoutSlipPDF(r.Context(), id, citizenID)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Attachment(w, "application/pdf", filename, data)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	citizenID, ok := citizenParam(w, r)
	if !ok {
		return
	}
	year, month, issues := shared.ParseYearMonth(r, h.now())
	if len(issues) > 0 {
		shared.FailValidation(w, shared.RequestID(r), issues)
		return
	}

	monthly, err := h.Preview.CalculateMonthly(r.Context(), citizenID, year, month)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	retro, err := h.Preview.CalculateRetroactive(r.Context(), citizenID, year, month, 0)
	if err != nil {
		shared.WriteError(w, r, h.log, err)
		return
	}
	api.Success(w, calculationPreview{CitizenID: citizenID, Year: year, Month: month, Monthly: monthly, Retro: retro}, shared.RequestID(r))
}
