package calc

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator(src *fakeSource, hist *fakeHistory, lookback int) *Calculator {
	var h History
	if hist != nil {
		h = hist
	}
	return NewCalculator(src, h, Options{DefaultVacationQuota: decimal.NewFromInt(10), RetroLookbackMonths: lookback}, nil)
}

func TestCalculateMonthlyFullMonth(t *testing.T) {
	calc := newCalculator(standardSource(), nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", got.NetPayment.StringFixed(2))
	assert.True(t, got.EligibleDays.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 30, got.ValidLicenseDays)
	assert.True(t, got.TotalDeductionDays.IsZero())
	require.NotNil(t, got.MasterRateID)
	assert.Equal(t, int64(10), *got.MasterRateID)
	assert.True(t, got.RateSnapshot.Equal(dec("3000")))
}

func TestCalculateMonthlyMidMonthResignation(t *testing.T) {
	src := standardSource()
	src.movements = append(src.movements, Movement{ID: 2, CitizenID: "c1", Type: MovementResign, EffectiveDate: day("2024-06-16")})
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", got.NetPayment.StringFixed(2))
	assert.True(t, got.EligibleDays.Equal(decimal.NewFromInt(15)))
}

func TestCalculateMonthlyRateChangeUsesLastRate(t *testing.T) {
	src := standardSource()
	src.eligibilities = []Eligibility{
		{ID: 1, MasterRateID: 10, Amount: dec("3000"), EffectiveDate: day("2020-01-01"), ExpiryDate: datePtr("2024-06-15")},
		{ID: 2, MasterRateID: 11, Amount: dec("6000"), EffectiveDate: day("2024-06-16"), IsActive: true},
	}
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "4500.00", got.NetPayment.StringFixed(2))
	require.NotNil(t, got.MasterRateID)
	assert.Equal(t, int64(11), *got.MasterRateID)
}

func TestCalculateMonthlyLeaveDeduction(t *testing.T) {
	src := standardSource()
	src.leaves = []Leave{
		{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-06-10"), EndDate: day("2024-06-11"), DurationDays: dec("2"), FiscalYear: 2567},
	}
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "2800.00", got.NetPayment.StringFixed(2))
	assert.True(t, got.TotalDeductionDays.Equal(decimal.NewFromInt(2)))
	assert.True(t, got.EligibleDays.Equal(decimal.NewFromInt(28)))
}

func TestCalculateMonthlyLeaveCrossingFiscalYear(t *testing.T) {
	src := standardSource()
	src.leaves = []Leave{
		{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-09-16"), EndDate: day("2024-10-15"), DurationDays: dec("30"), FiscalYear: 2567},
	}
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 10)
	require.NoError(t, err)
	assert.Equal(t, "1548.39", got.NetPayment.StringFixed(2))
	assert.True(t, got.TotalDeductionDays.Equal(decimal.NewFromInt(15)))
	assert.True(t, got.EligibleDays.Equal(decimal.NewFromInt(16)))
}

func TestCalculateMonthlyAfterBackdatedSupersede(t *testing.T) {
	src := standardSource()
	src.eligibilities = []Eligibility{
		{ID: 1, CitizenID: "c1", MasterRateID: 10, Amount: dec("3000"), EffectiveDate: day("2024-01-01"), ExpiryDate: datePtr("2024-06-30")},
		{ID: 3, CitizenID: "c1", MasterRateID: 12, Amount: dec("6000"), EffectiveDate: day("2024-07-01"), IsActive: true},
		{ID: 2, CitizenID: "c1", MasterRateID: 11, Amount: dec("4500"), EffectiveDate: day("2024-08-01"), ExpiryDate: datePtr("2024-06-30")},
	}
	calc := newCalculator(src, nil, 0)

	for _, month := range []int{7, 8} {
		got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, month)
		require.NoError(t, err)
		assert.Equal(t, "6000.00", got.NetPayment.StringFixed(2), "month %d", month)
		require.NotNil(t, got.MasterRateID)
		assert.Equal(t, int64(12), *got.MasterRateID)
	}
}

func TestCalculateMonthlyWithoutLicense(t *testing.T) {
	src := standardSource()
	src.licenses = nil
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.True(t, got.NetPayment.IsZero())
	assert.True(t, got.EligibleDays.IsZero())
	assert.Equal(t, 0, got.ValidLicenseDays)

	src.profile = &Profile{CitizenID: "c1", PositionName: "นายแพทย์ชำนาญการ"}
	got, err = calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", got.NetPayment.StringFixed(2))
}

func TestCalculateMonthlyNoWorkPeriods(t *testing.T) {
	src := standardSource()
	src.movements = append(src.movements, Movement{ID: 2, CitizenID: "c1", Type: MovementStudy, EffectiveDate: day("2024-01-01")})
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	require.NoError(t, err)
	assert.True(t, got.NetPayment.IsZero())
	assert.Nil(t, got.MasterRateID)
	assert.Equal(t, RemarkStudyLeave, got.Remark)
}

func TestCalculateMonthlyRounding(t *testing.T) {
	assert.Equal(t, "1000.01", RoundMoney(dec("1000.005")).StringFixed(2))
	assert.Equal(t, "1000.00", RoundMoney(dec("1000.004")).StringFixed(2))

	src := standardSource()
	src.eligibilities[0].Amount = dec("1000")
	src.movements = append(src.movements, Movement{ID: 2, CitizenID: "c1", Type: MovementResign, EffectiveDate: day("2024-12-02")})
	calc := newCalculator(src, nil, 0)

	got, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 12)
	require.NoError(t, err)
	assert.Equal(t, "32.26", got.NetPayment.StringFixed(2))
}

func TestCalculateMonthlyRejectsBadMonth(t *testing.T) {
	calc := newCalculator(standardSource(), nil, 0)
	_, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 13)
	assert.Error(t, err)
}

func TestCalculateMonthlyPropagatesSourceError(t *testing.T) {
	src := standardSource()
	src.err = errors.New("db down")
	calc := newCalculator(src, nil, 0)
	_, err := calc.CalculateMonthly(context.Background(), "c1", 2024, 6)
	assert.ErrorIs(t, err, src.err)
}
