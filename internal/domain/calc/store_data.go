package calc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"pts/internal/platform/querier"
)

// Store reads calculation inputs and payout history from PostgreSQL.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.citizen_id, e.master_rate_id, r.amount, e.effective_date, e.expiry_date, e.is_active
    FROM rate_eligibilities e
    JOIN master_rates r ON r.id = e.master_rate_id
    WHERE e.citizen_id = $1
    ORDER BY e.effective_date ASC, e.id ASC
  `, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Eligibility
	for rows.Next() {
		var e Eligibility
		if err := rows.Scan(&e.ID, &e.CitizenID, &e.MasterRateID, &e.Amount, &e.EffectiveDate, &e.ExpiryDate, &e.IsActive); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListMovements(ctx context.Context, citizenID string) ([]Movement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, citizen_id, movement_type, effective_date, remark
    FROM employment_movements
    WHERE citizen_id = $1
    ORDER BY effective_date ASC, created_at ASC, id ASC
  `, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.CitizenID, &m.Type, &m.EffectiveDate, &m.Remark); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetProfile(ctx context.Context, citizenID string) (*Profile, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
    SELECT citizen_id, position_name, specialist, expert, sub_department
    FROM employee_profiles
    WHERE citizen_id = $1
  `, citizenID).Scan(&p.CitizenID, &p.PositionName, &p.Specialist, &p.Expert, &p.SubDepartment)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListLicenses(ctx context.Context, citizenID string) ([]License, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, citizen_id, license_name, license_type, occupation_name, valid_from, valid_until, status
    FROM licenses
    WHERE citizen_id = $1
    ORDER BY valid_from ASC
  `, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []License
	for rows.Next() {
		var l License
		if err := rows.Scan(&l.ID, &l.CitizenID, &l.LicenseName, &l.LicenseType, &l.OccupationName, &l.ValidFrom, &l.ValidUntil, &l.Status); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) ListLeaves(ctx context.Context, citizenID string, fiscalYear int, from, to time.Time) ([]Leave, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, citizen_id, leave_type, start_date, end_date, duration_days, fiscal_year, status, ref_id
    FROM leave_requests
    WHERE citizen_id = $1
      AND (fiscal_year = $2 OR (start_date <= $4 AND end_date >= $3))
    ORDER BY start_date ASC, id ASC
  `, citizenID, fiscalYear, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		var l Leave
		if err := rows.Scan(&l.ID, &l.CitizenID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.DurationDays, &l.FiscalYear, &l.Status, &l.RefID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetVacationQuota(ctx context.Context, citizenID string, fiscalYear int) (decimal.Decimal, bool, error) {
	var quota decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT quota_vacation FROM leave_quotas WHERE citizen_id = $1 AND fiscal_year = $2
  `, citizenID, fiscalYear).Scan(&quota)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return quota, true, nil
}

func (s *Store) ListHolidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT holiday_date FROM holidays WHERE holiday_date BETWEEN $1 AND $2 ORDER BY holiday_date
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) ListClosedMonths(ctx context.Context, from, to YearMonth) ([]YearMonth, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT period_year, period_month
    FROM payroll_periods
    WHERE status = 'CLOSED'
      AND (period_year * 12 + period_month) BETWEEN $1 AND $2
    ORDER BY period_year, period_month
  `, from.Year*12+from.Month, to.Year*12+to.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearMonth
	for rows.Next() {
		var ym YearMonth
		if err := rows.Scan(&ym.Year, &ym.Month); err != nil {
			return nil, err
		}
		out = append(out, ym)
	}
	return out, rows.Err()
}

func (s *Store) PaidAmount(ctx context.Context, citizenID string, ym YearMonth, excludePeriodID int64) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(i.amount), 0)
    FROM payout_items i
    JOIN payouts p ON p.id = i.payout_id
    JOIN payroll_periods pp ON pp.id = p.period_id
    WHERE p.citizen_id = $1
      AND i.reference_year = $2 AND i.reference_month = $3
      AND pp.status = 'CLOSED'
      AND pp.id <> $4
  `, citizenID, ym.Year, ym.Month, excludePeriodID).Scan(&paid)
	return paid, err
}
