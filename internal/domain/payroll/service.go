package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pts/internal/domain/apperr"
	"pts/internal/domain/audit"
	"pts/internal/domain/auth"
	"pts/internal/domain/calc"
	"pts/internal/requestctx"
)

// Engine is the per-citizen calculation the period run drives.
type Engine interface {
	CalculateMonthly(ctx context.Context, citizenID string, year, month int) (calc.Result, error)
	CalculateRetroactive(ctx context.Context, citizenID string, year, month int, excludePeriodID int64) (calc.RetroResult, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

type Observer interface {
	RecordCalculation(payouts int, duration time.Duration, err error)
}

type Service struct {
	store    StoreAPI
	engine   Engine
	audit    AuditRecorder
	observer Observer
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store StoreAPI, engine Engine, recorder AuditRecorder, observer Observer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		engine:   engine,
		audit:    recorder,
		observer: observer,
		log:      log,
		now:      time.Now,
	}
}

// statusOwners is the role that acts on a period in each non-terminal status.
var statusOwners = map[Status]auth.Role{
	StatusOpen:            auth.RolePTSOfficer,
	StatusWaitingHR:       auth.RoleHeadHR,
	StatusWaitingDirector: auth.RoleDirector,
}

func (s *Service) GetOrCreatePeriod(ctx context.Context, year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, apperr.Validation("month must be between 1 and 12")
	}
	if year < 2000 || year > 2600 {
		return Period{}, apperr.Validation("year must be a Gregorian calendar year")
	}
	return s.store.GetOrCreatePeriod(ctx, year, month)
}

func (s *Service) GetPeriod(ctx context.Context, id int64) (Period, error) {
	return s.store.GetPeriod(ctx, id)
}

func (s *Service) ListPeriods(ctx context.Context, limit, offset int) ([]Period, int, error) {
	total, err := s.store.CountPeriods(ctx)
	if err != nil {
		return nil, 0, err
	}
	periods, err := s.store.ListPeriods(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

// Transition applies action to the period under a row lock.
func (s *Service) Transition(ctx context.Context, periodID int64, action Action, actor auth.Actor) (Period, error) {
	if !action.IsValid() {
		return Period{}, apperr.Validation("unknown period action %q", action)
	}

	var before, after Period
	err := s.store.WithinTx(ctx, func(tx StoreAPI) error {
		current, err := tx.LockPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		next, err := NextStatus(current.Status, action)
		if err != nil {
			return err
		}
		if owner := statusOwners[current.Status]; actor.Role != owner && actor.Role != auth.RoleAdmin {
			return &apperr.RoleMismatchError{Expected: string(owner), Got: string(actor.Role)}
		}

		var closedAt *time.Time
		if next == StatusClosed {
			now := s.now().UTC()
			closedAt = &now
		}
		if err := tx.UpdatePeriodStatus(ctx, periodID, next, closedAt); err != nil {
			return err
		}
		before = current
		after = current
		after.Status = next
		after.ClosedAt = closedAt
		return nil
	})
	if err != nil {
		return Period{}, err
	}

	s.log.Info("payroll period transition",
		zap.Int64("periodId", periodID),
		zap.String("action", string(action)),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)))
	s.recordAudit(ctx, audit.ActionPeriodTransition, periodID,
		map[string]any{"status": before.Status},
		map[string]any{"status": after.Status, "action": action})
	return after, nil
}

// ProcessPeriodCalculation rebuilds every payout of an OPEN period in one transaction.
func (s *Service) ProcessPeriodCalculation(ctx context.Context, periodID int64) (CalculationSummary, error) {
	started := s.now()
	summary := CalculationSummary{PeriodID: periodID, TotalAmount: decimal.Zero}

	err := s.store.WithinTx(ctx, func(tx StoreAPI) error {
		period, err := tx.LockPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if period.Status != StatusOpen {
			return fmt.Errorf("%w (status %s)", ErrPeriodNotOpen, period.Status)
		}
		if err := tx.DeletePayouts(ctx, periodID); err != nil {
			return fmt.Errorf("delete payouts: %w", err)
		}

		monthStart, monthEnd := calc.MonthBounds(period.Year, period.Month)
		citizens, err := tx.ListEligibleCitizens(ctx, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("list eligible citizens: %w", err)
		}

		for _, citizenID := range citizens {
			summary.Evaluated++
			written, amount, err := s.calculateCitizen(ctx, tx, period, citizenID)
			if err != nil {
				return fmt.Errorf("citizen %s: %w", citizenID, err)
			}
			if written {
				summary.TotalHeadcount++
				summary.TotalAmount = summary.TotalAmount.Add(amount)
			}
		}
		return tx.UpdatePeriodTotals(ctx, periodID, summary.TotalAmount, summary.TotalHeadcount)
	})
	if s.observer != nil {
		s.observer.RecordCalculation(summary.TotalHeadcount, s.now().Sub(started), err)
	}
	if err != nil {
		s.log.Warn("payroll period calculation failed", zap.Int64("periodId", periodID), zap.Error(err))
		return CalculationSummary{}, err
	}

	s.log.Info("payroll period calculated",
		zap.Int64("periodId", periodID),
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("headcount", summary.TotalHeadcount),
		zap.String("total", summary.TotalAmount.StringFixed(2)))
	s.recordAudit(ctx, audit.ActionPeriodCalculation, periodID, nil, summary)
	return summary, nil
}

func (s *Service) calculateCitizen(ctx context.Context, tx StoreAPI, period Period, citizenID string) (bool, decimal.Decimal, error) {
	result, err := s.engine.CalculateMonthly(ctx, citizenID, period.Year, period.Month)
	if err != nil {
		return false, decimal.Zero, err
	}
	retro, err := s.engine.CalculateRetroactive(ctx, citizenID, period.Year, period.Month, period.ID)
	if err != nil {
		return false, decimal.Zero, err
	}

	net := calc.RoundMoney(result.NetPayment)
	grand := calc.RoundMoney(net.Add(retro.TotalRetro))
	if net.IsZero() && grand.IsZero() {
		return false, decimal.Zero, nil
	}

	payoutID, err := tx.InsertPayout(ctx, Payout{
		PeriodID:         period.ID,
		CitizenID:        citizenID,
		MasterRateID:     result.MasterRateID,
		RateSnapshot:     result.RateSnapshot,
		CalculatedAmount: net,
		TotalPayable:     grand,
		DeductedDays:     result.TotalDeductionDays,
		EligibleDays:     result.EligibleDays,
		Remark:           result.Remark,
	})
	if err != nil {
		return false, decimal.Zero, fmt.Errorf("insert payout: %w", err)
	}

	items := make([]PayoutItem, 0, len(retro.Details)+1)
	if !net.IsZero() {
		items = append(items, PayoutItem{
			PayoutID:       payoutID,
			ReferenceMonth: period.Month,
			ReferenceYear:  period.Year,
			ItemType:       ItemCurrent,
			Amount:         net,
			Description:    fmt.Sprintf("ค่าตอบแทนประจำเดือน %02d/%d", period.Month, period.Year+543),
		})
	}
	for _, d := range retro.Details {
		itemType := ItemRetroactiveAdd
		if d.Diff.IsNegative() {
			itemType = ItemRetroactiveDeduct
		}
		items = append(items, PayoutItem{
			PayoutID:       payoutID,
			ReferenceMonth: d.Month,
			ReferenceYear:  d.Year,
			ItemType:       itemType,
			Amount:         d.Diff,
			Description:    d.Remark,
		})
	}
	for _, item := range items {
		if err := tx.InsertPayoutItem(ctx, item); err != nil {
			return false, decimal.Zero, fmt.Errorf("insert payout item: %w", err)
		}
	}
	return true, grand, nil
}

func (s *Service) ListPayouts(ctx context.Context, periodID int64) ([]Payout, error) {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	payouts, err := s.store.ListPayouts(ctx, periodID)
	if err != nil {
		return nil, err
	}
	for i := range payouts {
		items, err := s.store.ListPayoutItems(ctx, payouts[i].ID)
		if err != nil {
			return nil, err
		}
		payouts[i].Items = items
	}
	return payouts, nil
}

func (s *Service) GetPayout(ctx context.Context, periodID int64, citizenID string) (Payout, error) {
	payout, err := s.store.GetPayout(ctx, periodID, citizenID)
	if err != nil {
		return Payout{}, err
	}
	items, err := s.store.ListPayoutItems(ctx, payout.ID)
	if err != nil {
		return Payout{}, err
	}
	payout.Items = items
	return payout, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, periodID int64, before, after any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, audit.Entry{
		ActorID:    requestctx.ActorID(ctx),
		Action:     action,
		EntityType: audit.EntityPayrollPeriod,
		EntityID:   periodID,
		RequestID:  requestctx.GetRequestID(ctx),
		Before:     before,
		After:      after,
	})
	if err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
