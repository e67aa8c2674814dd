package eligibility

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pts/internal/platform/querier"
)

type Service struct {
	store StoreAPI
	log   *zap.Logger
}

func NewService(store StoreAPI, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) ListRates(ctx context.Context) ([]MasterRate, error) {
	return s.store.ListRates(ctx)
}

func (s *Service) ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error) {
	return s.store.ListEligibilities(ctx, citizenID)
}

// Finalize resolves the master rate for an approved request and opens its eligibility,
// running every statement on q so it commits together with the approval.
func (s *Service) Finalize(ctx context.Context, q querier.Querier, in FinalizeInput) (Eligibility, error) {
	return finalize(ctx, NewStore(q), in, s.log)
}

func finalize(ctx context.Context, store StoreAPI, in FinalizeInput, log *zap.Logger) (Eligibility, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !in.RequestedAmount.IsPositive() {
		return Eligibility{}, ErrInvalidAmount
	}
	if in.EffectiveDate.IsZero() {
		return Eligibility{}, ErrMissingEffDate
	}

	rate, err := ResolveRate(ctx, store, in.CitizenID, in)
	if err != nil {
		return Eligibility{}, err
	}

	requestID := in.RequestID
	created, err := Create(ctx, store, Eligibility{
		CitizenID:     in.CitizenID,
		MasterRateID:  rate.ID,
		RequestID:     &requestID,
		EffectiveDate: in.EffectiveDate,
	})
	if err != nil {
		return Eligibility{}, err
	}
	log.Info("eligibility created",
		zap.String("citizenId", in.CitizenID),
		zap.Int64("requestId", in.RequestID),
		zap.Int64("masterRateId", rate.ID),
		zap.Time("effectiveDate", in.EffectiveDate))
	return created, nil
}

// ResolveRate prefers the recommended rate when its amount equals the request exactly,
// then any active rate of the request's profession with that amount, then any active rate with that amount.
func ResolveRate(ctx context.Context, store StoreAPI, citizenID string, in FinalizeInput) (MasterRate, error) {
	recommended, err := store.RecommendedRate(ctx, citizenID)
	if err != nil {
		return MasterRate{}, fmt.Errorf("recommended rate: %w", err)
	}
	if recommended != nil && recommended.Amount.Equal(in.RequestedAmount) {
		return *recommended, nil
	}

	if in.ProfessionCode != "" {
		rate, err := store.FindRateByAmount(ctx, in.RequestedAmount, in.ProfessionCode)
		if err != nil {
			return MasterRate{}, fmt.Errorf("find rate: %w", err)
		}
		if rate != nil {
			return *rate, nil
		}
	}

	rate, err := store.FindRateByAmount(ctx, in.RequestedAmount, "")
	if err != nil {
		return MasterRate{}, fmt.Errorf("find rate: %w", err)
	}
	if rate == nil {
		return MasterRate{}, fmt.Errorf("%w: %s", ErrRateNotFound, in.RequestedAmount.StringFixed(2))
	}
	return *rate, nil
}

// Create caps every interval of the citizen that reaches e.EffectiveDate, superseded ones included,
// and inserts e as the only active one.
func Create(ctx context.Context, store StoreAPI, e Eligibility) (Eligibility, error) {
	e.EffectiveDate = dateOnly(e.EffectiveDate)
	if _, err := store.CloseOverlapping(ctx, e.CitizenID, e.EffectiveDate); err != nil {
		return Eligibility{}, fmt.Errorf("close overlapping eligibility: %w", err)
	}
	created, err := store.InsertEligibility(ctx, e)
	if err != nil {
		return Eligibility{}, fmt.Errorf("insert eligibility: %w", err)
	}
	return created, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
