package appointment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"mediconnect/internal/domain"
	"mediconnect/internal/pkg/lock"
	"mediconnect/internal/pkg/validator"
)

const defaultLockWait = 3 * time.Second

type Service struct {
	appointments AppointmentRepository
	events       EventPublisher
	locks        *lock.Keyed
	lockWait     time.Duration
}

func NewService(appointments AppointmentRepository, events EventPublisher, lockWait time.Duration) *Service {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Service{
		appointments: appointments,
		events:       events,
		locks:        lock.NewKeyed(),
		lockWait:     lockWait,
	}
}

// Book creates a pending appointment for the requested slot. The conflict
// check and the insert run under a per-doctor lock so two concurrent
// requests for overlapping slots cannot both pass the check; a request that
// cannot take the lock within the configured wait fails with ErrBusy.
func (s *Service) Book(ctx context.Context, req CreateAppointmentRequest) (*domain.Appointment, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, ErrValidation
	}
	if err := validateSlot(req.Slot); err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	release, err := s.locks.Acquire(lockCtx, doctorKey(req.DoctorID))
	if err != nil {
		return nil, ErrBusy
	}
	defer release()

	existing, err := s.appointments.FindActiveOverlapping(ctx, req.DoctorID, req.Slot.Start, req.Slot.End)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrSlotConflict
	}

	a := &domain.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		StartTime: req.Slot.Start,
		EndTime:   req.Slot.End,
		Status:    domain.AppointmentPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		if isDoubleBooking(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	s.events.Publish(ctx, domain.Event{
		Type:          domain.EventAppointmentBooked,
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		NewStatus:     a.Status,
		Actor:         domain.RolePatient,
		OccurredAt:    time.Now().UTC(),
	})

	return a, nil
}

// CheckConflict reports whether the requested slot intersects any of the
// doctor's pending/accepted appointments. Read-only.
func (s *Service) CheckConflict(ctx context.Context, doctorID int64, slot SlotRequest) (bool, string, error) {
	if doctorID <= 0 {
		return false, "", ErrValidation
	}
	if err := validateSlot(slot); err != nil {
		return false, "", err
	}

	existing, err := s.appointments.FindActiveOverlapping(ctx, doctorID, slot.Start, slot.End)
	if err != nil {
		return false, "", err
	}
	if len(existing) == 0 {
		return false, "", nil
	}
	return true, existing[0].ID, nil
}

// UpdateStatus applies a status transition and, once the write is durable,
// emits exactly one status-changed event. An event that fails to reach a
// subscriber does not roll the committed status back.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID string, newStatus domain.AppointmentStatus, actor domain.Role) (*domain.Appointment, error) {
	if appointmentID == "" || !newStatus.Valid() || !actor.Valid() {
		return nil, ErrValidation
	}

	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !canTransition(a.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	oldStatus := a.Status
	if err := s.appointments.UpdateStatus(ctx, appointmentID, oldStatus, newStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent transition won the compare-and-swap.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	a.Status = newStatus
	a.UpdatedAt = time.Now().UTC()

	s.events.Publish(ctx, domain.Event{
		Type:          domain.EventAppointmentStatusChanged,
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
	})

	return a, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func validateSlot(slot SlotRequest) error {
	if slot.Start.IsZero() || slot.End.IsZero() {
		return ErrValidation
	}
	if !slot.End.After(slot.Start) {
		return ErrValidation
	}
	if slot.Start.Before(time.Now()) {
		return ErrValidation
	}
	return nil
}

func doctorKey(doctorID int64) string {
	return "doctor:" + strconv.FormatInt(doctorID, 10)
}

// isDoubleBooking matches the PostgreSQL exclusion/unique violation raised
// by the no-double-booking constraint, for writes that bypass the lock.
func isDoubleBooking(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return (pgErr.Code == "23505" || pgErr.Code == "23P01") &&
			pgErr.ConstraintName == "idx_no_double_booking"
	}
	return false
}
