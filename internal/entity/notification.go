package entity

import (
	"time"
)

type NotificationType string

const (
	NotificationEventInvite   NotificationType = "event_invite"
	NotificationEventUpdate   NotificationType = "event_update"
	NotificationParticipation NotificationType = "participation_confirmed"
	NotificationReminder      NotificationType = "reminder"
)

// Notification targets one user. EventID is nil when the referenced event
// no longer exists (deletion cascade).
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	EventID   *int64           `json:"event_id,omitempty" db:"event_id"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
