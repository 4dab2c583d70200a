package models

import "time"

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationComplaintEscalated NotificationType = "complaint_escalated"
	NotificationComplaintAssigned  NotificationType = "complaint_assigned"
	NotificationStatusChanged      NotificationType = "complaint_status_changed"
)

// Notification is a per-user message referencing a complaint.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	ComplaintID string           `db:"complaint_id" json:"complaint_id"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// NotificationFilter captures filtering criteria for listing notifications.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
