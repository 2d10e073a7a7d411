package domain

import "time"

type Notification struct {
	ID            int64     `json:"id"`
	RecipientID   int64     `json:"recipient_id"`
	RecipientRole Role      `json:"recipient_role"`
	Type          EventType `json:"type"`
	Message       string    `json:"message"`
	AppointmentID string    `json:"appointment_id"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

func (n *Notification) Recipient() Recipient {
	return Recipient{ID: n.RecipientID, Role: n.RecipientRole}
}
