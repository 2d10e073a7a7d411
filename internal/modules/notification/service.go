package notification

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mediconnect/internal/domain"
)

type Service struct {
	notifications NotificationRepository
}

func NewService(notifications NotificationRepository) *Service {
	return &Service{notifications: notifications}
}

// Record derives one notification per interested recipient from the event
// and persists them. The actor is never notified about its own action.
func (s *Service) Record(ctx context.Context, e domain.Event) ([]domain.Notification, error) {
	recipients := e.Recipients()
	out := make([]domain.Notification, 0, len(recipients))

	for _, r := range recipients {
		n := domain.Notification{
			RecipientID:   r.ID,
			RecipientRole: r.Role,
			Type:          e.Type,
			Message:       RenderMessage(e, r),
			AppointmentID: e.AppointmentID,
			CreatedAt:     e.OccurredAt,
		}
		if err := s.notifications.Create(ctx, &n); err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, recipient domain.Recipient, limit int) ([]domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, recipient, limit)
}

// Dismiss deletes a notification on behalf of its owner. Dismissing someone
// else's notification fails with ErrForbidden and leaves the record alone.
func (s *Service) Dismiss(ctx context.Context, id int64, recipient domain.Recipient) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.Recipient() != recipient {
		return ErrForbidden
	}

	if err := s.notifications.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) MarkRead(ctx context.Context, id int64, recipient domain.Recipient) error {
	if err := s.notifications.MarkRead(ctx, id, recipient); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, recipient domain.Recipient) (int64, error) {
	return s.notifications.CountUnread(ctx, recipient)
}

// RenderMessage produces the human-readable notification text for one
// recipient of an event.
func RenderMessage(e domain.Event, r domain.Recipient) string {
	switch e.Type {
	case domain.EventAppointmentBooked:
		if r.Role == domain.RoleDoctor {
			return "You have a new appointment request"
		}
		return "Your appointment request has been submitted"
	case domain.EventAppointmentStatusChanged:
		switch e.NewStatus {
		case domain.AppointmentAccepted:
			return "Your appointment has been accepted"
		case domain.AppointmentRejected:
			return "Your appointment has been rejected"
		case domain.AppointmentCompleted:
			return "Your appointment has been marked as completed"
		case domain.AppointmentCancelled:
			return "An appointment has been cancelled"
		}
	}
	return fmt.Sprintf("Appointment update: %s", e.Type)
}
