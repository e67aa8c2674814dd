package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID int64, ntype, title, body string) error
	// UserEmail returns "" when the user has no address on file.
	UserEmail(ctx context.Context, userID int64) (string, error)
	ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, userID int64, unreadOnly bool) (int, error)
	MarkRead(ctx context.Context, userID, notificationID int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}
