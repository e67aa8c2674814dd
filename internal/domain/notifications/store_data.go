package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateNotification(ctx context.Context, userID int64, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, userID, ntype, title, body)
	return err
}

func (s *Store) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(email, '') FROM users WHERE id = $1", userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return email, err
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE user_id = $1 AND (NOT $2 OR read_at IS NULL)
    ORDER BY created_at DESC, id DESC
    LIMIT $3 OFFSET $4
  `, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, userID int64, unreadOnly bool) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND (NOT $2 OR read_at IS NULL)
  `, userID, unreadOnly).Scan(&total)
	return total, err
}

func (s *Store) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, now())
    WHERE user_id = $1 AND id = $2
  `, userID, notificationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now() WHERE user_id = $1 AND read_at IS NULL
  `, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
