package calc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source supplies the reference data one monthly calculation reads.
type Source interface {
	// ListEligibilities returns every interval of the citizen, active or superseded, by effective date ascending.
	ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error)
	// ListMovements returns movements by effective date then insertion order.
	ListMovements(ctx context.Context, citizenID string) ([]Movement, error)
	// GetProfile returns nil when the citizen has no profile.
	GetProfile(ctx context.Context, citizenID string) (*Profile, error)
	ListLicenses(ctx context.Context, citizenID string) ([]License, error)
	// ListLeaves returns leaves tagged with fiscalYear plus any leave overlapping [from, to].
	ListLeaves(ctx context.Context, citizenID string, fiscalYear int, from, to time.Time) ([]Leave, error)
	// GetVacationQuota reports false when no quota row exists for the fiscal year.
	GetVacationQuota(ctx context.Context, citizenID string, fiscalYear int) (decimal.Decimal, bool, error)
	ListHolidays(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// History exposes what earlier closed periods already paid.
type History interface {
	// ListClosedMonths returns the months in [from, to] whose payroll period is CLOSED.
	ListClosedMonths(ctx context.Context, from, to YearMonth) ([]YearMonth, error)
	// PaidAmount sums payout items referencing ym across CLOSED periods, skipping excludePeriodID.
	PaidAmount(ctx context.Context, citizenID string, ym YearMonth, excludePeriodID int64) (decimal.Decimal, error)
}
