package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, user_id, citizen_id, personnel_type, request_type, requested_amount, effective_date,
  profession_code, work_attributes, submission_data, status, current_step, created_at, updated_at`

func scanRequest(row pgx.Row) (Request, error) {
	var (
		r     Request
		attrs []byte
		data  []byte
	)
	err := row.Scan(&r.ID, &r.UserID, &r.CitizenID, &r.PersonnelType, &r.RequestType, &r.RequestedAmount,
		&r.EffectiveDate, &r.ProfessionCode, &attrs, &data, &r.Status, &r.CurrentStep, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &r.WorkAttributes); err != nil {
			return Request{}, fmt.Errorf("decode work attributes of request %d: %w", r.ID, err)
		}
	}
	if len(data) > 0 {
		r.SubmissionData = json.RawMessage(data)
	}
	return r, nil
}

func (s *Store) CreateRequest(ctx context.Context, r Request) (Request, error) {
	attrs, err := json.Marshal(r.WorkAttributes)
	if err != nil {
		return Request{}, err
	}
	var data []byte
	if len(r.SubmissionData) > 0 {
		data = r.SubmissionData
	}
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO pts_requests (user_id, citizen_id, personnel_type, request_type, requested_amount, effective_date,
      profession_code, work_attributes, submission_data, status, current_step)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING `+requestColumns,
		r.UserID, r.CitizenID, r.PersonnelType, r.RequestType, r.RequestedAmount, r.EffectiveDate,
		r.ProfessionCode, attrs, data, r.Status, r.CurrentStep))
}

func (s *Store) GetRequest(ctx context.Context, id int64) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM pts_requests WHERE id = $1`, id))
}

func (s *Store) LockRequest(ctx context.Context, id int64) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM pts_requests WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) ListRequests(ctx context.Context, f ListFilter) ([]Request, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Step > 0 {
		args = append(args, f.Step)
		where = append(where, fmt.Sprintf("current_step = $%d", len(args)))
	}

	query := `SELECT ` + requestColumns + ` FROM pts_requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRequestState(ctx context.Context, id int64, status Status, step int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pts_requests SET status = $2, current_step = $3, updated_at = now() WHERE id = $1
  `, id, status, step)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

const actionColumns = "id, request_id, actor_id, step_no, action, COALESCE(comment, ''), signature_snapshot, action_date"

func scanAction(row pgx.Row) (Action, error) {
	var a Action
	if err := row.Scan(&a.ID, &a.RequestID, &a.ActorID, &a.StepNo, &a.Action, &a.Comment, &a.SignatureSnapshot, &a.ActionDate); err != nil {
		return Action{}, err
	}
	a.HasSignature = len(a.SignatureSnapshot) > 0
	return a, nil
}

func (s *Store) InsertAction(ctx context.Context, a Action) (Action, error) {
	return scanAction(s.DB.QueryRow(ctx, `
    INSERT INTO request_actions (request_id, actor_id, step_no, action, comment, signature_snapshot)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+actionColumns,
		a.RequestID, a.ActorID, a.StepNo, a.Action, a.Comment, a.SignatureSnapshot))
}

func (s *Store) ListActions(ctx context.Context, requestID int64) ([]Action, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+actionColumns+` FROM request_actions WHERE request_id = $1 ORDER BY action_date, id
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAction(ctx context.Context, requestID, actionID int64) (Action, error) {
	a, err := scanAction(s.DB.QueryRow(ctx, `
    SELECT `+actionColumns+` FROM request_actions WHERE request_id = $1 AND id = $2
  `, requestID, actionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Action{}, ErrActionNotFound
	}
	return a, err
}

func (s *Store) GetSignature(ctx context.Context, userID int64) ([]byte, error) {
	var image []byte
	err := s.DB.QueryRow(ctx, `SELECT image FROM signatures WHERE user_id = $1`, userID).Scan(&image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return image, err
}

func (s *Store) PutSignature(ctx context.Context, userID int64, image []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO signatures (user_id, image) VALUES ($1,$2)
    ON CONFLICT (user_id) DO UPDATE SET image = EXCLUDED.image, updated_at = now()
  `, userID, image)
	return err
}
