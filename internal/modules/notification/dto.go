package notification

type ListNotificationsRequest struct {
	RecipientID int64 `json:"recipientId"`
	Limit       int   `json:"limit"`
}

type DeleteNotificationRequest struct {
	NotificationID int64 `json:"notificationId" binding:"required"`
	RecipientID    int64 `json:"recipientId"`
}

type ReadNotificationRequest struct {
	NotificationID int64 `json:"notificationId" binding:"required"`
}
