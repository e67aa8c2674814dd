package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"pts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// People returns display data keyed by citizen id. Citizens without a user or profile row are absent.
func (s *Store) People(ctx context.Context, citizenIDs []string) (map[string]Person, error) {
	out := make(map[string]Person, len(citizenIDs))
	if len(citizenIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT c.citizen_id, COALESCE(u.full_name, ''), COALESCE(p.position_name, ''), COALESCE(p.sub_department, '')
    FROM unnest($1::text[]) AS c(citizen_id)
    LEFT JOIN users u ON u.citizen_id = c.citizen_id
    LEFT JOIN employee_profiles p ON p.citizen_id = c.citizen_id
  `, citizenIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.CitizenID, &p.FullName, &p.Position, &p.Department); err != nil {
			return nil, err
		}
		out[p.CitizenID] = p
	}
	return out, rows.Err()
}

func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM pts_requests WHERE status = 'PENDING'),
      (SELECT COUNT(1) FROM pts_requests WHERE status = 'RETURNED'),
      (SELECT COUNT(1) FROM rate_eligibilities WHERE is_active),
      (SELECT COUNT(1) FROM payroll_periods WHERE status <> 'CLOSED')
  `).Scan(&d.PendingRequests, &d.ReturnedRequests, &d.ActiveEligibilities, &d.OpenPeriods)
	if err != nil {
		return Dashboard{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT current_step, COUNT(1) FROM pts_requests WHERE status = 'PENDING' GROUP BY current_step
  `)
	if err != nil {
		return Dashboard{}, err
	}
	defer rows.Close()
	d.PendingByStep = map[int]int{}
	for rows.Next() {
		var step, count int
		if err := rows.Scan(&step, &count); err != nil {
			return Dashboard{}, err
		}
		d.PendingByStep[step] = count
	}
	return d, rows.Err()
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := buildJobRunsQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobRun
	for rows.Next() {
		var (
			run        JobRun
			detailsRaw []byte
		)
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(detailsRaw)
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error) {
	query, args := buildJobRunsQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildJobRunsQuery(filter JobRunFilter) (string, []any) {
	query := `
    SELECT id::text, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE 1=1
  `
	var args []any
	if value := strings.TrimSpace(filter.JobType); value != "" {
		args = append(args, value)
		query += " AND job_type = $" + strconv.Itoa(len(args))
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		args = append(args, value)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		args = append(args, *filter.StartedFrom)
		query += " AND started_at >= $" + strconv.Itoa(len(args))
	}
	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	details := map[string]any{}
	if len(raw) == 0 {
		return details
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return details
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
}
