package eligibility

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	// RecommendedRate returns nil when no recommendation exists for the citizen.
	RecommendedRate(ctx context.Context, citizenID string) (*MasterRate, error)
	// FindRateByAmount returns nil when no active rate matches; an empty professionCode matches any profession.
	FindRateByAmount(ctx context.Context, amount decimal.Decimal, professionCode string) (*MasterRate, error)
	ListRates(ctx context.Context) ([]MasterRate, error)
	CloseOverlapping(ctx context.Context, citizenID string, effectiveDate time.Time) (int64, error)
	InsertEligibility(ctx context.Context, e Eligibility) (Eligibility, error)
	ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error)
}
