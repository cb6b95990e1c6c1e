package service

import (
	"context"

	"github.com/eventdesk/eventdesk/internal/entity"
)

// RegistrationService is the registration/ticket-inventory core: it decides
// the resulting registration state, mutates tier inventory and attendee
// counters, and triggers notifications.
type RegistrationService interface {
	Register(ctx context.Context, req *RegisterRequest) (*entity.Registration, error)
	Cancel(ctx context.Context, registrationID, callerID int64) error
	SetStatus(ctx context.Context, registrationID, organizerID int64, newStatus entity.RegistrationStatus) (*entity.Registration, error)
	ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*entity.Registration, error)

	GetUserRegistrations(ctx context.Context, userID int64) ([]*entity.Registration, error)
	GetEventRegistrations(ctx context.Context, eventID, organizerID int64) ([]*entity.Registration, error)
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.Event, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.Event, error)
	// GetAllEvents returns every event regardless of status, for the
	// admin surface.
	GetAllEvents(ctx context.Context) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, id, organizerID int64, req *UpdateEventRequest) (*entity.Event, error)
	// DeleteEvent runs the cascade: notify active attendees while the event
	// title is still live, drop registrations, drop notifications, drop event.
	DeleteEvent(ctx context.Context, id, organizerID int64) error
}

type UserService interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetAttendedEvents(ctx context.Context, userID int64) ([]int64, error)
}

type NotificationService interface {
	// Create persists the notification and hands it to the dispatch queue
	// best-effort. The user must exist; eventID may be nil.
	Create(ctx context.Context, userID int64, ntype entity.NotificationType, message string, eventID *int64) (*entity.Notification, error)
	GetUserNotifications(ctx context.Context, userID int64) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	DeleteAllForEvent(ctx context.Context, eventID int64) (int64, error)
}
