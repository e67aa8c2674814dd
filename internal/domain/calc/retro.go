package calc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CalculateRetroactive recomputes every closed month before (year, month) back to the citizen's
// first eligibility and returns the signed difference from what those months already paid.
// Items of excludePeriodID are ignored so a period can be recalculated repeatedly.
func (c *Calculator) CalculateRetroactive(ctx context.Context, citizenID string, year, month int, excludePeriodID int64) (RetroResult, error) {
	result := RetroResult{TotalRetro: decimal.Zero}
	if c.history == nil {
		return result, nil
	}

	eligibilities, err := c.source.ListEligibilities(ctx, citizenID)
	if err != nil {
		return RetroResult{}, fmt.Errorf("list eligibilities: %w", err)
	}
	if len(eligibilities) == 0 {
		return result, nil
	}

	earliest := eligibilities[0].EffectiveDate
	for _, e := range eligibilities[1:] {
		if e.EffectiveDate.Before(earliest) {
			earliest = e.EffectiveDate
		}
	}

	current := YearMonth{Year: year, Month: month}
	from := YearMonth{Year: earliest.Year(), Month: int(earliest.Month())}
	if c.opts.RetroLookbackMonths > 0 {
		if floor := current.AddMonths(-c.opts.RetroLookbackMonths); from.Before(floor) {
			from = floor
		}
	}
	to := current.AddMonths(-1)
	if to.Before(from) {
		return result, nil
	}

	closed, err := c.history.ListClosedMonths(ctx, from, to)
	if err != nil {
		return RetroResult{}, fmt.Errorf("list closed months: %w", err)
	}

	for _, ym := range closed {
		recomputed, err := c.CalculateMonthly(ctx, citizenID, ym.Year, ym.Month)
		if err != nil {
			return RetroResult{}, fmt.Errorf("recalculate %d/%d: %w", ym.Month, ym.Year, err)
		}
		paid, err := c.history.PaidAmount(ctx, citizenID, ym, excludePeriodID)
		if err != nil {
			return RetroResult{}, fmt.Errorf("paid amount %d/%d: %w", ym.Month, ym.Year, err)
		}
		diff := RoundMoney(recomputed.NetPayment.Sub(paid))
		if diff.IsZero() {
			continue
		}
		result.Details = append(result.Details, RetroDetail{
			Month:  ym.Month,
			Year:   ym.Year,
			Diff:   diff,
			Remark: retroRemark(diff, ym),
		})
		result.TotalRetro = result.TotalRetro.Add(diff)
	}

	if len(result.Details) > 0 {
		c.log.Debug("retroactive adjustment",
			zap.String("citizenId", citizenID),
			zap.Int("months", len(result.Details)),
			zap.String("total", result.TotalRetro.StringFixed(2)))
	}
	return result, nil
}

func retroRemark(diff decimal.Decimal, ym YearMonth) string {
	if diff.IsNegative() {
		return fmt.Sprintf("เรียกคืนย้อนหลัง %02d/%d", ym.Month, ym.Year+buddhistEraOffset)
	}
	return fmt.Sprintf("ตกเบิกย้อนหลัง %02d/%d", ym.Month, ym.Year+buddhistEraOffset)
}
