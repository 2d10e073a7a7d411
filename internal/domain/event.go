package domain

import "time"

type EventType string

const (
	EventAppointmentBooked        EventType = "appointment-booked"
	EventAppointmentStatusChanged EventType = "appointment-status-changed"
)

// Event is an immutable fact about an appointment, emitted after the
// corresponding write has been committed. It drives both the durable
// notification records and the live websocket push.
type Event struct {
	Type          EventType         `json:"type"`
	AppointmentID string            `json:"appointment_id"`
	DoctorID      int64             `json:"doctor_id"`
	PatientID     int64             `json:"patient_id"`
	OldStatus     AppointmentStatus `json:"old_status,omitempty"`
	NewStatus     AppointmentStatus `json:"new_status,omitempty"`
	Actor         Role              `json:"actor"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// Recipients returns the parties that should be told about the event.
// The actor already knows what it did, so only the other side is notified.
func (e Event) Recipients() []Recipient {
	switch e.Actor {
	case RoleDoctor:
		return []Recipient{{ID: e.PatientID, Role: RolePatient}}
	case RolePatient:
		return []Recipient{{ID: e.DoctorID, Role: RoleDoctor}}
	}
	// Unknown actor: both sides get notified rather than neither.
	return []Recipient{
		{ID: e.DoctorID, Role: RoleDoctor},
		{ID: e.PatientID, Role: RolePatient},
	}
}
