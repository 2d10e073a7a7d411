package appointment

import "time"

type SlotRequest struct {
	Start time.Time `json:"start" binding:"required" validate:"required"`
	End   time.Time `json:"end" binding:"required" validate:"required"`
}

type CreateAppointmentRequest struct {
	DoctorID  int64       `json:"doctorId" binding:"required" validate:"required,gt=0"`
	PatientID int64       `json:"patientId" binding:"required" validate:"required,gt=0"`
	Slot      SlotRequest `json:"slot" binding:"required"`
}

type UpdateStatusRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	NewStatus     string `json:"newStatus" binding:"required"`
}

type CheckSlotRequest struct {
	DoctorID int64       `json:"doctorId" binding:"required"`
	Slot     SlotRequest `json:"slot" binding:"required"`
}

type CheckSlotResponse struct {
	Conflict                 bool   `json:"conflict"`
	ConflictingAppointmentID string `json:"conflictingAppointmentId,omitempty"`
}
