package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	// WithinTx runs fn against a store bound to one transaction, committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(tx StoreAPI) error) error

	GetOrCreatePeriod(ctx context.Context, year, month int) (Period, error)
	GetPeriod(ctx context.Context, id int64) (Period, error)
	// LockPeriod reads the period with SELECT ... FOR UPDATE.
	LockPeriod(ctx context.Context, id int64) (Period, error)
	ListPeriods(ctx context.Context, limit, offset int) ([]Period, error)
	CountPeriods(ctx context.Context) (int, error)
	UpdatePeriodStatus(ctx context.Context, id int64, status Status, closedAt *time.Time) error
	UpdatePeriodTotals(ctx context.Context, id int64, total decimal.Decimal, headcount int) error

	// ListEligibleCitizens returns citizens holding an active eligibility effective on or before monthEnd,
	// plus those whose superseded interval still overlaps [monthStart, monthEnd].
	ListEligibleCitizens(ctx context.Context, monthStart, monthEnd time.Time) ([]string, error)
	DeletePayouts(ctx context.Context, periodID int64) error
	InsertPayout(ctx context.Context, p Payout) (int64, error)
	InsertPayoutItem(ctx context.Context, item PayoutItem) error
	ListPayouts(ctx context.Context, periodID int64) ([]Payout, error)
	GetPayout(ctx context.Context, periodID int64, citizenID string) (Payout, error)
	ListPayoutItems(ctx context.Context, payoutID int64) ([]PayoutItem, error)
}
