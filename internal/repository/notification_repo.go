package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mediconnect/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	RecipientID   int64     `gorm:"column:recipient_id;index:idx_notifications_recipient"`
	RecipientRole string    `gorm:"column:recipient_role;size:10;index:idx_notifications_recipient"`
	Type          string    `gorm:"column:type;size:40"`
	Message       string    `gorm:"column:message"`
	AppointmentID string    `gorm:"column:appointment_id;size:36"`
	IsRead        bool      `gorm:"column:is_read"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) *domain.Notification {
	return &domain.Notification{
		ID:            m.ID,
		RecipientID:   m.RecipientID,
		RecipientRole: domain.Role(m.RecipientRole),
		Type:          domain.EventType(m.Type),
		Message:       m.Message,
		AppointmentID: m.AppointmentID,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		RecipientID:   n.RecipientID,
		RecipientRole: string(n.RecipientRole),
		Type:          string(n.Type),
		Message:       n.Message,
		AppointmentID: n.AppointmentID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*n = *toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var m notificationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainNotification(m), nil
}

// ListByRecipient returns the recipient's notifications, newest first. The
// id tiebreak keeps the order stable when timestamps collide.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipient domain.Recipient, limit int) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("recipient_id = ? AND recipient_role = ?", recipient.ID, string(recipient.Role)).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []notificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&notificationModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND recipient_id = ? AND recipient_role = ?", id, recipient.ID, string(recipient.Role)).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipient domain.Recipient) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ? AND recipient_role = ? AND is_read = ?", recipient.ID, string(recipient.Role), false).
		Count(&count).Error
	return count, err
}

// Models returns the gorm models owned by this package, for migration.
func Models() []any {
	return []any{&appointmentModel{}, &notificationModel{}}
}
