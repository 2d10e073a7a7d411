package appointment

import (
	"context"
	"time"

	"mediconnect/internal/domain"
)

// AppointmentRepository defines the durable store operations the service
// needs. This service is the only writer of appointment status.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindActiveOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error
}

// EventPublisher receives a domain event after the corresponding write has
// been committed. Publishing is best-effort: implementations log their own
// failures and never propagate them back into the request.
type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event)
}
