package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"pts/internal/domain/payroll"
)

const slipFont = "slip"

// PayoutSlipPDF renders one citizen's payout for a period. Without a UTF-8 font configured
// the slip falls back to Helvetica and non-Latin text is replaced.
func (s *Service) PayoutSlipPDF(ctx context.Context, periodID int64, citizenID string) ([]byte, string, error) {
	period, err := s.payroll.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	payout, err := s.payroll.GetPayout(ctx, periodID, citizenID)
	if err != nil {
		return nil, "", err
	}
	person := s.people(ctx, []payroll.Payout{payout})[citizenID]

	data, err := buildSlip(period, payout, person, s.fontPath)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("pts-slip-%s-%04d-%02d.pdf", citizenID, period.Year, period.Month), nil
}

type slipWriter struct {
	pdf     *gofpdf.Fpdf
	family  string
	unicode bool
}

func (w slipWriter) text(s string) string {
	if w.unicode {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}

func (w slipWriter) line(label, value string) {
	w.pdf.SetFont(w.family, "", 11)
	w.pdf.CellFormat(55, 7, w.text(label), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(0, 7, w.text(value), "", 1, "L", false, 0, "")
}

func buildSlip(period payroll.Period, payout payroll.Payout, person Person, fontPath string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := slipWriter{pdf: pdf, family: "Helvetica"}
	if fontPath != "" {
		pdf.AddUTF8Font(slipFont, "", fontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load slip font %s: %w", fontPath, err)
		}
		w.family = slipFont
		w.unicode = true
	}
	pdf.SetTitle(fmt.Sprintf("PTS payout %s %02d/%d", payout.CitizenID, period.Month, period.Year), true)
	pdf.AddPage()

	pdf.SetFont(w.family, "", 16)
	pdf.CellFormat(0, 10, "PTS Allowance Payout Slip", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	w.line("Period", fmt.Sprintf("%02d/%d (BE %d) %s", period.Month, period.Year, period.Year+543, period.Status))
	w.line("Citizen ID", payout.CitizenID)
	if person.FullName != "" {
		w.line("Name", person.FullName)
	}
	if person.Position != "" {
		w.line("Position", person.Position)
	}
	w.line("Rate", payout.RateSnapshot.StringFixed(2))
	w.line("Eligible days", payout.EligibleDays.String())
	w.line("Deducted days", payout.DeductedDays.String())
	pdf.Ln(4)

	pdf.SetFont(w.family, "", 11)
	pdf.SetFillColor(230, 243, 255)
	widths := []float64{45, 25, 30, 90}
	for i, h := range []string{"Item", "Month", "Amount", "Description"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	for _, item := range payout.Items {
		pdf.CellFormat(widths[0], 7, string(item.ItemType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%02d/%d", item.ReferenceMonth, item.ReferenceYear+543), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, item.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, w.text(item.Description), "1", 1, "L", false, 0, "")
	}
	pdf.CellFormat(widths[0]+widths[1], 8, "Total payable", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[2], 8, payout.TotalPayable.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, w.text(payout.Remark), "1", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	return buf.Bytes(), nil
}
