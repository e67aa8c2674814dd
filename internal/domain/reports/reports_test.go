package reports

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pts/internal/domain/apperr"
	"pts/internal/domain/payroll"
)

type fakePayroll struct {
	period  payroll.Period
	payouts []payroll.Payout
}

func (f fakePayroll) GetPeriod(ctx context.Context, id int64) (payroll.Period, error) {
	if id != f.period.ID {
		return payroll.Period{}, apperr.NotFound("payroll period")
	}
	return f.period, nil
}

func (f fakePayroll) ListPayouts(ctx context.Context, periodID int64) ([]payroll.Payout, error) {
	return f.payouts, nil
}

func (f fakePayroll) GetPayout(ctx context.Context, periodID int64, citizenID string) (payroll.Payout, error) {
	for _, p := range f.payouts {
		if p.CitizenID == citizenID {
			return p, nil
		}
	}
	return payroll.Payout{}, apperr.NotFound("payout")
}

type fakeStore struct{}

func (fakeStore) People(ctx context.Context, ids []string) (map[string]Person, error) {
	return map[string]Person{"c1": {CitizenID: "c1", FullName: "สมหญิง ใจดี", Position: "พยาบาลวิชาชีพ"}}, nil
}
func (fakeStore) Dashboard(ctx context.Context) (Dashboard, error) { return Dashboard{}, nil }
func (fakeStore) ListJobRuns(ctx context.Context, f JobRunFilter, limit, offset int) ([]JobRun, error) {
	return nil, nil
}
func (fakeStore) CountJobRuns(ctx context.Context, f JobRunFilter) (int, error) { return 0, nil }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture() *Service {
	src := fakePayroll{
		period: payroll.Period{ID: 3, Year: 2024, Month: 11, Status: payroll.StatusOpen},
		payouts: []payroll.Payout{
			{
				CitizenID: "c1", RateSnapshot: dec("1500"), EligibleDays: dec("30"), DeductedDays: dec("0"),
				TotalPayable: dec("1300"),
				Items: []payroll.PayoutItem{
					{ItemType: payroll.ItemCurrent, ReferenceYear: 2024, ReferenceMonth: 11, Amount: dec("1500"), Description: "ค่าตอบแทนประจำเดือน 11/2567"},
					{ItemType: payroll.ItemRetroactiveDeduct, ReferenceYear: 2024, ReferenceMonth: 9, Amount: dec("-200"), Description: "เรียกคืนย้อนหลัง 09/2567"},
				},
			},
			{
				CitizenID: "c2", RateSnapshot: dec("1000"), EligibleDays: dec("30"), DeductedDays: dec("0"),
				TotalPayable: dec("1000"),
				Items:        []payroll.PayoutItem{{ItemType: payroll.ItemCurrent, ReferenceYear: 2024, ReferenceMonth: 11, Amount: dec("1000")}},
			},
		},
	}
	return NewService(fakeStore{}, src, "", nil)
}

func TestPeriodRegisterXLSX(t *testing.T) {
	data, name, err := fixture().PeriodRegisterXLSX(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "pts-register-2024-11.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name3, err := f.GetCellValue(registerSheet, "C4")
	require.NoError(t, err)
	assert.Equal(t, "สมหญิง ใจดี", name3)

	deduct, err := f.GetCellValue(registerSheet, "J4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "200", deduct)

	total, err := f.GetCellValue(registerSheet, "K6", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2300", total)
}

func TestPeriodRegisterUnknownPeriod(t *testing.T) {
	_, _, err := fixture().PeriodRegisterXLSX(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPayoutSlipPDF(t *testing.T) {
	data, name, err := fixture().PayoutSlipPDF(context.Background(), 3, "c1")
	require.NoError(t, err)
	assert.Equal(t, "pts-slip-c1-2024-11.pdf", name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, _, err = fixture().PayoutSlipPDF(context.Background(), 3, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSplitItems(t *testing.T) {
	current, add, deduct := splitItems([]payroll.PayoutItem{
		{ItemType: payroll.ItemCurrent, Amount: dec("100.5")},
		{ItemType: payroll.ItemRetroactiveAdd, Amount: dec("20")},
		{ItemType: payroll.ItemRetroactiveDeduct, Amount: dec("-7.25")},
	})
	assert.Equal(t, "100.50", current.StringFixed(2))
	assert.Equal(t, "20.00", add.StringFixed(2))
	assert.Equal(t, "7.25", deduct.StringFixed(2))
}
