package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"pts/internal/domain/calc"
	"pts/internal/domain/payroll"
)

const registerSheet = "Payouts"

var registerHeaders = []string{
	"ลำดับ", "เลขประจำตัวประชาชน", "ชื่อ-สกุล", "ตำแหน่ง", "อัตรา",
	"วันมีสิทธิ", "วันถูกหัก", "ประจำเดือน", "ตกเบิก", "เรียกคืน", "ยอดจ่ายสุทธิ", "หมายเหตุ",
}

var registerWidths = []float64{8, 20, 30, 28, 12, 12, 12, 14, 12, 12, 16, 30}

// PeriodRegisterXLSX renders every payout of a period as a spreadsheet with a totals row.
func (s *Service) PeriodRegisterXLSX(ctx context.Context, periodID int64) ([]byte, string, error) {
	period, err := s.payroll.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	payouts, err := s.payroll.ListPayouts(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	data, err := buildRegister(period, payouts, s.people(ctx, payouts))
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("pts-register-%04d-%02d.xlsx", period.Year, period.Month), nil
}

type registerTotals struct {
	current, retroAdd, retroDeduct, payable decimal.Decimal
}

func buildRegister(period payroll.Period, payouts []payroll.Payout, people map[string]Person) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	title := fmt.Sprintf("ทะเบียนจ่ายเงิน พ.ต.ส. ประจำเดือน %02d/%d (%s)", period.Month, period.Year+543, period.Status)
	if err := f.SetCellValue(registerSheet, "A1", title); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	const headerRow = 3
	for i, header := range registerHeaders {
		if err := setCell(f, i+1, headerRow, header); err != nil {
			return nil, err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(registerSheet, col, col, registerWidths[i]); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(registerHeaders), headerRow)
	if err := f.SetCellStyle(registerSheet, first, last, headerStyle); err != nil {
		return nil, err
	}

	totals := registerTotals{current: decimal.Zero, retroAdd: decimal.Zero, retroDeduct: decimal.Zero, payable: decimal.Zero}
	row := headerRow
	for i, p := range payouts {
		row++
		current, add, deduct := splitItems(p.Items)
		totals.current = totals.current.Add(current)
		totals.retroAdd = totals.retroAdd.Add(add)
		totals.retroDeduct = totals.retroDeduct.Add(deduct)
		totals.payable = totals.payable.Add(p.TotalPayable)

		person := people[p.CitizenID]
		values := []any{
			i + 1, p.CitizenID, person.FullName, person.Position,
			p.RateSnapshot.InexactFloat64(), p.EligibleDays.InexactFloat64(), p.DeductedDays.InexactFloat64(),
			current.InexactFloat64(), add.InexactFloat64(), deduct.InexactFloat64(), p.TotalPayable.InexactFloat64(),
			p.Remark,
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
		}
	}

	row++
	summary := map[int]any{
		3:  "รวม",
		8:  totals.current.InexactFloat64(),
		9:  totals.retroAdd.InexactFloat64(),
		10: totals.retroDeduct.InexactFloat64(),
		11: totals.payable.InexactFloat64(),
	}
	for col, v := range summary {
		if err := setCell(f, col, row, v); err != nil {
			return nil, err
		}
	}

	moneyFrom, _ := excelize.CoordinatesToCellName(5, headerRow+1)
	moneyTo, _ := excelize.CoordinatesToCellName(11, row)
	if err := f.SetCellStyle(registerSheet, moneyFrom, moneyTo, moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetPanes(registerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// splitItems returns the current amount, retro additions and retro deductions (as a positive sum).
func splitItems(items []payroll.PayoutItem) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	current, add, deduct := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		switch item.ItemType {
		case payroll.ItemCurrent:
			current = current.Add(item.Amount)
		case payroll.ItemRetroactiveAdd:
			add = add.Add(item.Amount)
		case payroll.ItemRetroactiveDeduct:
			deduct = deduct.Add(item.Amount.Abs())
		}
	}
	return calc.RoundMoney(current), calc.RoundMoney(add), calc.RoundMoney(deduct)
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(registerSheet, cell, value)
}
