package models

import "time"

// Notification types
const (
	NotificationAssignment = "assignment"
	NotificationPayment    = "payment"
	NotificationInspection = "inspection"
	NotificationInfo       = "info"
)

type Notification struct {
	ID          int       `json:"id"`
	RecipientID int       `json:"recipient_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
