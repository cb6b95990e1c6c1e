package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotPublished  = errors.New("event is not published")
	ErrEventInPast        = errors.New("event has already started")
	ErrInvalidDates       = errors.New("event end date must not be before start date")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrInsufficientSeats  = errors.New("not enough available tickets")

	// Registration errors
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("user already has an active registration for this event")
	ErrAlreadyCancelled     = errors.New("registration is already cancelled")
	ErrInvalidStatus        = errors.New("invalid registration status")
	ErrNotPayable           = errors.New("registration cannot be paid in its current status")
	ErrAlreadyPaid          = errors.New("registration is already paid")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden operation")
)
