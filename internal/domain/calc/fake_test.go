package calc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := day(s)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeSource struct {
	eligibilities []Eligibility
	movements     []Movement
	profile       *Profile
	licenses      []License
	leaves        []Leave
	quota         *decimal.Decimal
	holidays      []time.Time
	err           error
}

func (f *fakeSource) ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error) {
	return f.eligibilities, f.err
}

func (f *fakeSource) ListMovements(ctx context.Context, citizenID string) ([]Movement, error) {
	return f.movements, nil
}

func (f *fakeSource) GetProfile(ctx context.Context, citizenID string) (*Profile, error) {
	return f.profile, nil
}

func (f *fakeSource) ListLicenses(ctx context.Context, citizenID string) ([]License, error) {
	return f.licenses, nil
}

func (f *fakeSource) ListLeaves(ctx context.Context, citizenID string, fiscalYear int, from, to time.Time) ([]Leave, error) {
	var out []Leave
	for _, l := range f.leaves {
		overlaps := !l.StartDate.After(to) && !l.EndDate.Before(from)
		if l.FiscalYear == 0 || l.FiscalYear == fiscalYear || overlaps {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSource) GetVacationQuota(ctx context.Context, citizenID string, fiscalYear int) (decimal.Decimal, bool, error) {
	if f.quota == nil {
		return decimal.Zero, false, nil
	}
	return *f.quota, true, nil
}

func (f *fakeSource) ListHolidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	return f.holidays, nil
}

type fakeHistory struct {
	closed []YearMonth
	paid   map[YearMonth]decimal.Decimal
}

func (f *fakeHistory) ListClosedMonths(ctx context.Context, from, to YearMonth) ([]YearMonth, error) {
	var out []YearMonth
	for _, ym := range f.closed {
		if ym.Before(from) || to.Before(ym) {
			continue
		}
		out = append(out, ym)
	}
	return out, nil
}

func (f *fakeHistory) PaidAmount(ctx context.Context, citizenID string, ym YearMonth, excludePeriodID int64) (decimal.Decimal, error) {
	return f.paid[ym], nil
}

// standardSource is a citizen employed since 2020 with a 3000 rate and a license valid through 2030.
func standardSource() *fakeSource {
	return &fakeSource{
		eligibilities: []Eligibility{
			{ID: 1, CitizenID: "c1", MasterRateID: 10, Amount: dec("3000"), EffectiveDate: day("2020-01-01"), IsActive: true},
		},
		movements: []Movement{
			{ID: 1, CitizenID: "c1", Type: MovementEntry, EffectiveDate: day("2020-01-01")},
		},
		profile: &Profile{CitizenID: "c1", PositionName: "พยาบาลวิชาชีพ"},
		licenses: []License{
			{ID: 1, CitizenID: "c1", LicenseName: "ใบประกอบวิชาชีพการพยาบาล", ValidFrom: day("2020-01-01"), ValidUntil: day("2030-12-31"), Status: LicenseStatusActive},
		},
	}
}
