package request

import (
	"context"

	"go.uber.org/zap"

	"pts/internal/platform/querier"
)

type Store struct {
	DB  querier.Querier
	log *zap.Logger
}

func NewStore(db querier.Querier, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{DB: db, log: log}
}

func (s *Store) Querier() querier.Querier {
	return s.DB
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&Store{DB: tx, log: s.log}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Warn("request tx rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}
