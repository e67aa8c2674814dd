package reports

import (
	"context"

	"go.uber.org/zap"

	"pts/internal/domain/payroll"
)

type PayrollReader interface {
	GetPeriod(ctx context.Context, id int64) (payroll.Period, error)
	ListPayouts(ctx context.Context, periodID int64) ([]payroll.Payout, error)
	GetPayout(ctx context.Context, periodID int64, citizenID string) (payroll.Payout, error)
}

type StoreAPI interface {
	People(ctx context.Context, citizenIDs []string) (map[string]Person, error)
	Dashboard(ctx context.Context) (Dashboard, error)
	ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error)
	CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error)
}

type Service struct {
	store    StoreAPI
	payroll  PayrollReader
	fontPath string
	log      *zap.Logger
}

// NewService builds the report service. fontPath names an optional UTF-8 TrueType font
// used for Thai text in PDF slips.
func NewService(store StoreAPI, payroll PayrollReader, fontPath string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, payroll: payroll, fontPath: fontPath, log: log}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	return s.store.Dashboard(ctx)
}

func (s *Service) JobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, int, error) {
	total, err := s.store.CountJobRuns(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	runs, err := s.store.ListJobRuns(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (s *Service) people(ctx context.Context, payouts []payroll.Payout) map[string]Person {
	ids := make([]string, 0, len(payouts))
	for _, p := range payouts {
		ids = append(ids, p.CitizenID)
	}
	people, err := s.store.People(ctx, ids)
	if err != nil {
		s.log.Warn("report people lookup failed", zap.Error(err))
		return map[string]Person{}
	}
	return people
}
