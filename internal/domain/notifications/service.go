package notifications

import (
	"context"

	"go.uber.org/zap"

	"pts/internal/domain/apperr"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	store  StoreAPI
	mailer Mailer
	log    *zap.Logger
}

func New(store StoreAPI, mailer Mailer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, mailer: mailer, log: log}
}

// Notify persists an in-app notification and mails it when a mailer is wired.
// Mail failures are logged, not returned.
func (s *Service) Notify(ctx context.Context, userID int64, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}
	if s.mailer == nil {
		return nil
	}

	email, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		s.log.Warn("notification email lookup failed", zap.Int64("userId", userID), zap.Error(err))
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, email, title, body); err != nil {
		s.log.Warn("notification email send failed", zap.Int64("userId", userID), zap.Error(err))
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	total, err := s.store.CountNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}
