package repository

import (
	"context"
	"time"

	"github.com/eventdesk/eventdesk/internal/entity"
)

type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id int64) error

	// Query operations
	GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error)
	GetStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Event, error)

	// Inventory operations. AdjustTicketQuantity applies the delta as a
	// single conditional UPDATE: a negative delta only succeeds when the
	// tier still has enough tickets, otherwise ErrInsufficientSeats.
	AdjustTicketQuantity(ctx context.Context, eventID int64, ticketType string, delta int) error
	// AdjustAttendees moves the attendee counter by delta, floored at zero.
	AdjustAttendees(ctx context.Context, eventID int64, delta int) error
}

type RegistrationRepository interface {
	// Create inserts a new row; a duplicate (event, attendee) pair maps to
	// ErrAlreadyRegistered via the unique constraint.
	Create(ctx context.Context, reg *entity.Registration) error
	GetByID(ctx context.Context, id int64) (*entity.Registration, error)
	// GetByEventAndUser returns (nil, nil) when no row exists for the pair.
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*entity.Registration, error)
	Update(ctx context.Context, reg *entity.Registration) error
	UpdateStatus(ctx context.Context, id int64, status entity.RegistrationStatus) error
	UpdatePayment(ctx context.Context, id int64, status entity.PaymentStatus, method entity.PaymentMethod) error

	// Query operations
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Registration, error)
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.Registration, error)
	GetByEventAndStatuses(ctx context.Context, eventID int64, statuses ...entity.RegistrationStatus) ([]*entity.Registration, error)

	// Cascade operations
	DeleteByEventID(ctx context.Context, eventID int64) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Attended-events set. AddAttendedEvent is idempotent.
	AddAttendedEvent(ctx context.Context, userID, eventID int64) error
	GetAttendedEvents(ctx context.Context, userID int64) ([]int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	DeleteByEventID(ctx context.Context, eventID int64) (int64, error)
	HasReminder(ctx context.Context, userID, eventID int64) (bool, error)
}
