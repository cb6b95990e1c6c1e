package entity

import (
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusAttended  RegistrationStatus = "attended"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodFree     PaymentMethod = "free"
)

// Registration is one user's claim on tickets for one event. At most one
// row exists per (event, attendee) pair; a cancelled row is reactivated in
// place instead of inserting a second one.
type Registration struct {
	ID            int64              `json:"id" db:"id"`
	EventID       int64              `json:"event_id" db:"event_id"`
	AttendeeID    int64              `json:"attendee_id" db:"attendee_id"`
	TicketType    string             `json:"ticket_type" db:"ticket_type"`
	Quantity      int                `json:"quantity" db:"quantity"`
	TotalPrice    float64            `json:"total_price" db:"total_price"`
	Currency      string             `json:"currency" db:"currency"`
	Status        RegistrationStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status" db:"payment_status"`
	PaymentMethod PaymentMethod      `json:"payment_method,omitempty" db:"payment_method"`
	CheckInCode   string             `json:"check_in_code,omitempty" db:"check_in_code"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the registration still claims inventory.
func (r *Registration) IsActive() bool {
	return r.Status == RegistrationStatusPending ||
		r.Status == RegistrationStatusConfirmed ||
		r.Status == RegistrationStatusAttended
}
