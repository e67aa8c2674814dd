package eligibility

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const rateColumns = "id, profession_code, group_no, item_no, amount, description, is_active"

func scanRate(row pgx.Row) (*MasterRate, error) {
	var r MasterRate
	err := row.Scan(&r.ID, &r.ProfessionCode, &r.GroupNo, &r.ItemNo, &r.Amount, &r.Description, &r.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) RecommendedRate(ctx context.Context, citizenID string) (*MasterRate, error) {
	return scanRate(s.DB.QueryRow(ctx, `
    SELECT r.id, r.profession_code, r.group_no, r.item_no, r.amount, r.description, r.is_active
    FROM rate_recommendations rr
    JOIN master_rates r ON r.id = rr.master_rate_id
    WHERE rr.citizen_id = $1 AND r.is_active
  `, citizenID))
}

func (s *Store) FindRateByAmount(ctx context.Context, amount decimal.Decimal, professionCode string) (*MasterRate, error) {
	if professionCode == "" {
		return scanRate(s.DB.QueryRow(ctx, `
      SELECT `+rateColumns+`
      FROM master_rates
      WHERE is_active AND amount = $1
      ORDER BY id
      LIMIT 1
    `, amount))
	}
	return scanRate(s.DB.QueryRow(ctx, `
    SELECT `+rateColumns+`
    FROM master_rates
    WHERE is_active AND amount = $1 AND profession_code = $2
    ORDER BY id
    LIMIT 1
  `, amount, professionCode))
}

func (s *Store) ListRates(ctx context.Context) ([]MasterRate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+rateColumns+`
    FROM master_rates
    ORDER BY profession_code, group_no, item_no
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MasterRate
	for rows.Next() {
		r, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CloseOverlapping(ctx context.Context, citizenID string, effectiveDate time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE rate_eligibilities
    SET is_active = FALSE, expiry_date = $2::date - 1
    WHERE citizen_id = $1
      AND (expiry_date IS NULL OR expiry_date >= $2::date)
  `, citizenID, effectiveDate)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) InsertEligibility(ctx context.Context, e Eligibility) (Eligibility, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO rate_eligibilities (citizen_id, master_rate_id, request_id, effective_date, expiry_date, is_active)
    VALUES ($1,$2,$3,$4,$5,TRUE)
    RETURNING id
  `, e.CitizenID, e.MasterRateID, e.RequestID, e.EffectiveDate, e.ExpiryDate).Scan(&e.ID)
	if err != nil {
		return Eligibility{}, err
	}
	e.IsActive = true
	return e, nil
}

func (s *Store) ListEligibilities(ctx context.Context, citizenID string) ([]Eligibility, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, citizen_id, master_rate_id, request_id, effective_date, expiry_date, is_active
    FROM rate_eligibilities
    WHERE citizen_id = $1
    ORDER BY effective_date ASC, id ASC
  `, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Eligibility
	for rows.Next() {
		var e Eligibility
		if err := rows.Scan(&e.ID, &e.CitizenID, &e.MasterRateID, &e.RequestID, &e.EffectiveDate, &e.ExpiryDate, &e.IsActive); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
