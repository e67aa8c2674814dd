package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pts/internal/platform/querier"
)

const (
	EntityPayrollPeriod = "payroll_period"
	EntityRequest       = "pts_request"

	ActionPeriodTransition  = "period.transition"
	ActionPeriodCalculation = "period.calculate"
	ActionRequestFinalized  = "request.finalized"
)

type Event struct {
	ID         int64           `json:"id"`
	ActorID    *int64          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Entry is one audit event to append. Before and After are marshalled to JSON when non-nil.
type Entry struct {
	ActorID    *int64
	Action     string
	EntityType string
	EntityID   int64
	RequestID  string
	Before     any
	After      any
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func marshalOptional(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Service) Record(ctx context.Context, e Entry) error {
	beforeJSON, err := marshalOptional(e.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalOptional(e.After)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity_type, entity_id, request_id, before_json, after_json)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, e.ActorID, e.Action, e.EntityType, strconv.FormatInt(e.EntityID, 10), e.RequestID, beforeJSON, afterJSON)
	return err
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	query, args := buildQuery(filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.CreatedAt, &evt.Before, &evt.After); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildQuery(filter Filter) (string, []any) {
	query := "SELECT id, actor_id, action, entity_type, entity_id, request_id, created_at, before_json, after_json FROM audit_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	return query, args
}
