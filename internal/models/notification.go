package models

import "time"

// NotificationType enumerates notification categories.
type NotificationType string

const (
	NotificationMaintenance NotificationType = "maintenance"
	NotificationWarranty    NotificationType = "warranty"
	NotificationGeneral     NotificationType = "general"
)

// Notification is an in-app message for a single recipient. Rows are
// created only as workflow side effects and mutate only their read flag.
type Notification struct {
	ID      string           `db:"id" json:"id"`
	UserID  string           `db:"user_id" json:"userId"`
	Message string           `db:"message" json:"message"`
	Type    NotificationType `db:"type" json:"type"`
	Date    time.Time        `db:"date" json:"date"`
	Read    bool             `db:"read" json:"read"`
}

// NotificationFilter captures supported filters for listing notifications.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PageSize   int
}
