package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediconnect/internal/domain"
	"mediconnect/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create-appointment", h.CreateAppointment)
	rg.POST("/update-status", h.UpdateStatus)
	rg.POST("/check-booked-appointments", h.CheckBookedAppointments)
	rg.POST("/get-appointments-patient", h.GetAppointmentsPatient)
	rg.POST("/get-appointments-doctor", h.GetAppointmentsDoctor)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := currentRecipient(c)
	if actor.Role != domain.RolePatient || actor.ID != req.PatientID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Appointments can only be booked by the patient themselves")
		return
	}

	a, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment slot")
		case ErrSlotConflict:
			response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "The requested slot is already booked")
		case ErrBusy:
			response.Error(c, http.StatusServiceUnavailable, "BUSY", "Doctor's schedule is busy, please retry")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create appointment")
		}
		return
	}

	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := currentRecipient(c)

	a, err := h.service.UpdateStatus(c.Request.Context(), req.AppointmentID, domain.AppointmentStatus(req.NewStatus), actor.Role)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status value")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
		case ErrInvalidTransition:
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status change is not allowed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		}
		return
	}

	response.Success(c, http.StatusOK, a)
}

func (h *Handler) CheckBookedAppointments(c *gin.Context) {
	var req CheckSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	conflict, conflictingID, err := h.service.CheckConflict(c.Request.Context(), req.DoctorID, req.Slot)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
		}
		return
	}

	response.Success(c, http.StatusOK, CheckSlotResponse{
		Conflict:                 conflict,
		ConflictingAppointmentID: conflictingID,
	})
}

func (h *Handler) GetAppointmentsPatient(c *gin.Context) {
	actor := currentRecipient(c)
	if actor.Role != domain.RolePatient {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Patient access only")
		return
	}

	list, err := h.service.ListByPatient(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch appointments")
		return
	}

	response.Success(c, http.StatusOK, list)
}

func (h *Handler) GetAppointmentsDoctor(c *gin.Context) {
	actor := currentRecipient(c)
	if actor.Role != domain.RoleDoctor {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Doctor access only")
		return
	}

	list, err := h.service.ListByDoctor(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch appointments")
		return
	}

	response.Success(c, http.StatusOK, list)
}

func currentRecipient(c *gin.Context) domain.Recipient {
	return domain.Recipient{
		ID:   c.GetInt64("recipient_id"),
		Role: domain.Role(c.GetString("role")),
	}
}
