package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentAccepted  AppointmentStatus = "accepted"
	AppointmentRejected  AppointmentStatus = "rejected"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further status change is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentRejected || s == AppointmentCompleted || s == AppointmentCancelled
}

// Active statuses are the ones that occupy a doctor's slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentPending || s == AppointmentAccepted
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentAccepted, AppointmentRejected,
		AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        string            `json:"id"`
	DoctorID  int64             `json:"doctor_id" validate:"required"`
	PatientID int64             `json:"patient_id" validate:"required"`
	StartTime time.Time         `json:"start_time" validate:"required"`
	EndTime   time.Time         `json:"end_time" validate:"required"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Overlaps reports whether the appointment's slot intersects [start, end).
// Touching boundaries (one ends exactly when the other starts) do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && start.Before(a.EndTime)
}
