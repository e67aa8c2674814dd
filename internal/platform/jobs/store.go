package jobs

import (
	"context"

	"github.com/google/uuid"

	"pts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) StartRun(ctx context.Context, id uuid.UUID, jobType string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_runs (id, job_type, status) VALUES ($1,$2,$3)
  `, id, jobType, StatusRunning)
	return err
}

func (s *Store) FinishRun(ctx context.Context, id uuid.UUID, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs SET status = $2, details_json = $3, completed_at = now() WHERE id = $1
  `, id, status, details)
	return err
}
