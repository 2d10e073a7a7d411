package notification

import (
	"context"

	"mediconnect/internal/domain"
	"mediconnect/internal/realtime"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipient domain.Recipient, limit int) ([]domain.Notification, error)
	Delete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error
	CountUnread(ctx context.Context, recipient domain.Recipient) (int64, error)
}

// Pusher fans a payload out to the live connections of the target
// recipients. Implemented by the realtime hub; delivery is best-effort.
type Pusher interface {
	Publish(targets []domain.Recipient, p realtime.Push)
}
