package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pts/internal/domain/apperr"
)

const periodColumns = "id, period_month, period_year, status, total_amount, total_headcount, closed_at, created_at, updated_at"

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.Month, &p.Year, &p.Status, &p.TotalAmount, &p.TotalHeadcount, &p.ClosedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	return p, err
}

func (s *Store) GetOrCreatePeriod(ctx context.Context, year, month int) (Period, error) {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_periods (period_year, period_month, status)
    VALUES ($1,$2,'OPEN')
    ON CONFLICT (period_year, period_month) DO NOTHING
  `, year, month); err != nil {
		return Period{}, err
	}
	return scanPeriod(s.DB.QueryRow(ctx, `
    SELECT `+periodColumns+` FROM payroll_periods WHERE period_year = $1 AND period_month = $2
  `, year, month))
}

func (s *Store) GetPeriod(ctx context.Context, id int64) (Period, error) {
	return scanPeriod(s.DB.QueryRow(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1`, id))
}

func (s *Store) LockPeriod(ctx context.Context, id int64) (Period, error) {
	return scanPeriod(s.DB.QueryRow(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+periodColumns+`
    FROM payroll_periods
    ORDER BY period_year DESC, period_month DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CountPeriods(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM payroll_periods`).Scan(&total)
	return total, err
}

func (s *Store) UpdatePeriodStatus(ctx context.Context, id int64, status Status, closedAt *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $2, closed_at = $3, updated_at = now() WHERE id = $1
  `, id, status, closedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (s *Store) UpdatePeriodTotals(ctx context.Context, id int64, total decimal.Decimal, headcount int) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET total_amount = $2, total_headcount = $3, updated_at = now() WHERE id = $1
  `, id, total, headcount)
	return err
}

func (s *Store) ListEligibleCitizens(ctx context.Context, monthStart, monthEnd time.Time) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT citizen_id
    FROM rate_eligibilities
    WHERE effective_date <= $2
      AND (is_active OR (expiry_date >= $1 AND expiry_date >= effective_date))
    ORDER BY citizen_id
  `, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) DeletePayouts(ctx context.Context, periodID int64) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM payouts WHERE period_id = $1`, periodID)
	return err
}

func (s *Store) InsertPayout(ctx context.Context, p Payout) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payouts (period_id, citizen_id, master_rate_id, pts_rate_snapshot, calculated_amount,
                         total_payable, deducted_days, eligible_days, remark)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, p.PeriodID, p.CitizenID, p.MasterRateID, p.RateSnapshot, p.CalculatedAmount,
		p.TotalPayable, p.DeductedDays, p.EligibleDays, p.Remark).Scan(&id)
	return id, err
}

func (s *Store) InsertPayoutItem(ctx context.Context, item PayoutItem) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payout_items (payout_id, reference_month, reference_year, item_type, amount, description)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, item.PayoutID, item.ReferenceMonth, item.ReferenceYear, item.ItemType, item.Amount, item.Description)
	return err
}

const payoutColumns = "id, period_id, citizen_id, master_rate_id, pts_rate_snapshot, calculated_amount, total_payable, deducted_days, eligible_days, remark"

func scanPayout(row pgx.Row) (Payout, error) {
	var p Payout
	err := row.Scan(&p.ID, &p.PeriodID, &p.CitizenID, &p.MasterRateID, &p.RateSnapshot, &p.CalculatedAmount,
		&p.TotalPayable, &p.DeductedDays, &p.EligibleDays, &p.Remark)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payout{}, apperr.NotFound("payout")
	}
	return p, err
}

func (s *Store) ListPayouts(ctx context.Context, periodID int64) ([]Payout, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+payoutColumns+` FROM payouts WHERE period_id = $1 ORDER BY citizen_id
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPayout(ctx context.Context, periodID int64, citizenID string) (Payout, error) {
	return scanPayout(s.DB.QueryRow(ctx, `
    SELECT `+payoutColumns+` FROM payouts WHERE period_id = $1 AND citizen_id = $2
  `, periodID, citizenID))
}

func (s *Store) ListPayoutItems(ctx context.Context, payoutID int64) ([]PayoutItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payout_id, reference_month, reference_year, item_type, amount, description
    FROM payout_items
    WHERE payout_id = $1
    ORDER BY reference_year, reference_month, id
  `, payoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayoutItem
	for rows.Next() {
		var item PayoutItem
		if err := rows.Scan(&item.ID, &item.PayoutID, &item.ReferenceMonth, &item.ReferenceYear, &item.ItemType, &item.Amount, &item.Description); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
