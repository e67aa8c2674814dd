package calc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Options struct {
	LifetimeLicenseKeywords []string
	DefaultVacationQuota    decimal.Decimal
	// RetroLookbackMonths bounds the retroactive window; 0 means back to the first eligibility.
	RetroLookbackMonths int
}

type Calculator struct {
	source   Source
	history  History
	licenses *LicenseChecker
	opts     Options
	log      *zap.Logger
}

func NewCalculator(source Source, history History, opts Options, log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.LifetimeLicenseKeywords == nil {
		opts.LifetimeLicenseKeywords = DefaultLifetimeLicenseKeywords
	}
	return &Calculator{
		source:   source,
		history:  history,
		licenses: NewLicenseChecker(opts.LifetimeLicenseKeywords),
		opts:     opts,
		log:      log,
	}
}

// RoundMoney rounds to satang, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculateMonthly computes the allowance one citizen earns for a calendar month.
func (c *Calculator) CalculateMonthly(ctx context.Context, citizenID string, year, month int) (Result, error) {
	if month < 1 || month > 12 {
		return Result{}, fmt.Errorf("invalid month %d", month)
	}
	monthStart, monthEnd := MonthBounds(year, month)
	fiscalYear := FiscalYear(monthStart)
	result := Result{CitizenID: citizenID, Year: year, Month: month}

	eligibilities, err := c.source.ListEligibilities(ctx, citizenID)
	if err != nil {
		return Result{}, fmt.Errorf("list eligibilities: %w", err)
	}
	movements, err := c.source.ListMovements(ctx, citizenID)
	if err != nil {
		return Result{}, fmt.Errorf("list movements: %w", err)
	}
	profile, err := c.source.GetProfile(ctx, citizenID)
	if err != nil {
		return Result{}, fmt.Errorf("get profile: %w", err)
	}
	licenses, err := c.source.ListLicenses(ctx, citizenID)
	if err != nil {
		return Result{}, fmt.Errorf("list licenses: %w", err)
	}
	leaves, err := c.source.ListLeaves(ctx, citizenID, fiscalYear, monthStart, monthEnd)
	if err != nil {
		return Result{}, fmt.Errorf("list leaves: %w", err)
	}
	quota, found, err := c.source.GetVacationQuota(ctx, citizenID, fiscalYear)
	if err != nil {
		return Result{}, fmt.Errorf("get quota: %w", err)
	}
	if !found {
		quota = c.opts.DefaultVacationQuota
	}
	holidayFrom, _ := MonthBounds(year-1, 1)
	_, holidayTo := MonthBounds(year, 12)
	holidays, err := c.source.ListHolidays(ctx, holidayFrom, holidayTo)
	if err != nil {
		return Result{}, fmt.Errorf("list holidays: %w", err)
	}

	work := ResolvePeriods(movements, monthStart, monthEnd)
	result.Remark = work.Remark
	if len(work.Periods) == 0 {
		return result, nil
	}

	positionName := ""
	if profile != nil {
		positionName = profile.PositionName
	}
	deductions := CalculateDeductions(leaves, quota, holidays, monthStart, monthEnd)

	one := decimal.NewFromInt(1)
	weightedRate := decimal.Zero
	for _, period := range work.Periods {
		for day := period.Start; !day.After(period.End); day = day.AddDate(0, 0, 1) {
			rate := decimal.Zero
			if e, ok := ActiveRateForDay(eligibilities, day); ok {
				rate = e.Amount
				id := e.MasterRateID
				result.MasterRateID = &id
				result.RateSnapshot = e.Amount
			}

			licensed := decimal.Zero
			if c.licenses.HasValidLicense(licenses, day, positionName) {
				result.ValidLicenseDays++
				licensed = one
			}

			deduction := deductions[DayKey(day)]
			if deduction.IsPositive() {
				result.TotalDeductionDays = result.TotalDeductionDays.Add(deduction)
			}

			weight := clampWeight(licensed.Sub(deduction))
			if !weight.IsPositive() {
				continue
			}
			result.EligibleDays = result.EligibleDays.Add(weight)
			weightedRate = weightedRate.Add(rate.Mul(weight))
		}
	}

	daysInMonth := decimal.NewFromInt(int64(DaysInMonth(year, month)))
	result.NetPayment = RoundMoney(weightedRate.Div(daysInMonth))
	return result, nil
}
