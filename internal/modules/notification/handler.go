package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediconnect/internal/domain"
	"mediconnect/internal/pkg/response"
)

const defaultListLimit = 50

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/get-all-notification", h.GetAllNotifications)
	rg.POST("/delete-notification", h.DeleteNotification)
	rg.POST("/read-notification", h.ReadNotification)
}

func (h *Handler) GetAllNotifications(c *gin.Context) {
	var req ListNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipient := currentRecipient(c)
	// The body's recipientId is kept for contract compatibility; it must
	// match the authenticated identity.
	if req.RecipientID != 0 && req.RecipientID != recipient.ID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Cannot read another recipient's notifications")
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	list, err := h.service.List(c.Request.Context(), recipient, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}

	unread, err := h.service.UnreadCount(c.Request.Context(), recipient)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get unread count")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	var req DeleteNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipient := currentRecipient(c)
	if req.RecipientID != 0 && req.RecipientID != recipient.ID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Cannot dismiss another recipient's notification")
		return
	}

	err := h.service.Dismiss(c.Request.Context(), req.NotificationID, recipient)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Notification belongs to another recipient")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notification")
		}
		return
	}

	response.NoContent(c)
}

func (h *Handler) ReadNotification(c *gin.Context) {
	var req ReadNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	recipient := currentRecipient(c)
	if err := h.service.MarkRead(c.Request.Context(), req.NotificationID, recipient); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification as read")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func currentRecipient(c *gin.Context) domain.Recipient {
	return domain.Recipient{
		ID:   c.GetInt64("recipient_id"),
		Role: domain.Role(c.GetString("role")),
	}
}
