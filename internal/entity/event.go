package entity

import (
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type Event struct {
	ID               int64       `json:"id" db:"id"`
	OrganizerID      int64       `json:"organizer_id" db:"organizer_id"`
	Title            string      `json:"title" db:"title"`
	Description      string      `json:"description" db:"description"`
	Status           EventStatus `json:"status" db:"status"`
	StartsAt         time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt           time.Time   `json:"ends_at" db:"ends_at"`
	Capacity         *int        `json:"capacity,omitempty" db:"capacity"`
	CurrentAttendees int         `json:"current_attendees" db:"current_attendees"`
	IsFree           bool        `json:"is_free" db:"is_free"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`

	Tickets []TicketTier `json:"tickets,omitempty"`
}

// TicketTier is one purchasable category within an event. A nil
// AvailableQuantity means the tier does not track inventory.
type TicketTier struct {
	ID                int64   `json:"id" db:"id"`
	EventID           int64   `json:"event_id" db:"event_id"`
	Type              string  `json:"type" db:"type"`
	Price             float64 `json:"price" db:"price"`
	Currency          string  `json:"currency" db:"currency"`
	AvailableQuantity *int    `json:"available_quantity,omitempty" db:"available_quantity"`
}

// TicketByType returns the tier with the given type label, or nil.
func (e *Event) TicketByType(ticketType string) *TicketTier {
	for i := range e.Tickets {
		if e.Tickets[i].Type == ticketType {
			return &e.Tickets[i]
		}
	}
	return nil
}
