package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pts/internal/domain/payroll"
	"pts/internal/platform/lock"
)

const (
	JobPeriodRecalc = "period_recalculation"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunStore interface {
	StartRun(ctx context.Context, id uuid.UUID, jobType string) error
	FinishRun(ctx context.Context, id uuid.UUID, status string, details []byte) error
}

type PeriodCalculator interface {
	GetOrCreatePeriod(ctx context.Context, year, month int) (payroll.Period, error)
	ProcessPeriodCalculation(ctx context.Context, periodID int64) (payroll.CalculationSummary, error)
}

type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

type ContentionObserver interface {
	RecordLockContention()
}

type Options struct {
	RecalcInterval time.Duration
	LockTTL        time.Duration
}

type Service struct {
	runs     RunStore
	periods  PeriodCalculator
	locker   Locker
	observer ContentionObserver
	opts     Options
	queue    chan job
	log      *zap.Logger
	now      func() time.Time
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(runs RunStore, periods PeriodCalculator, locker Locker, observer ContentionObserver, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &Service{
		runs:     runs,
		periods:  periods,
		locker:   locker,
		observer: observer,
		opts:     opts,
		queue:    make(chan job, 16),
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.opts.RecalcInterval > 0 && s.locker != nil {
		go s.scheduleRecalc(ctx, s.opts.RecalcInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		s.log.Warn("job queue full", zap.String("jobType", jobType))
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.log.Warn("job run failed", zap.String("jobType", j.Type), zap.Error(err))
			}
		}
	}
}

// runJob records the run in job_runs around j. Bookkeeping failures are logged and never fail the job.
func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := uuid.New()
	recorded := s.runs != nil
	if recorded {
		if err := s.runs.StartRun(ctx, runID, j.Type); err != nil {
			s.log.Warn("job run insert failed", zap.String("jobType", j.Type), zap.Error(err))
			recorded = false
		}
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error(), "details": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.log.Warn("job details marshal failed", zap.Error(marshalErr))
		detailsJSON = []byte("{}")
	}
	if recorded {
		if updErr := s.runs.FinishRun(context.WithoutCancel(ctx), runID, status, detailsJSON); updErr != nil {
			s.log.Warn("job run update failed", zap.String("runId", runID.String()), zap.Error(updErr))
		}
	}
	return details, err
}

func (s *Service) scheduleRecalc(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobPeriodRecalc, s.RecalculateCurrentPeriod)
		}
	}
}

// RecalculateCurrentPeriod ensures this month's period exists and recalculates it while it is OPEN.
// Only the replica holding the Redis lock does the work; the others skip.
func (s *Service) RecalculateCurrentPeriod(ctx context.Context) (any, error) {
	now := s.now()
	period, err := s.periods.GetOrCreatePeriod(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, fmt.Errorf("get current period: %w", err)
	}
	details := map[string]any{"periodId": period.ID, "year": period.Year, "month": period.Month}
	if period.Status != payroll.StatusOpen {
		details["skipped"] = "period is " + string(period.Status)
		return details, nil
	}

	recalc := func(ctx context.Context) error {
		summary, err := s.periods.ProcessPeriodCalculation(ctx, period.ID)
		if err != nil {
			return err
		}
		details["headcount"] = summary.TotalHeadcount
		details["totalAmount"] = summary.TotalAmount.StringFixed(2)
		return nil
	}
	if s.locker == nil {
		// single-replica deployment without Redis
		return details, recalc(ctx)
	}

	key := fmt.Sprintf("pts:period-recalc:%d", period.ID)
	err = s.locker.WithLock(ctx, key, s.opts.LockTTL, recalc)
	if errors.Is(err, lock.ErrNotAcquired) {
		if s.observer != nil {
			s.observer.RecordLockContention()
		}
		s.log.Info("period recalculation held by another replica", zap.Int64("periodId", period.ID))
		details["skipped"] = "locked"
		return details, nil
	}
	return details, err
}
