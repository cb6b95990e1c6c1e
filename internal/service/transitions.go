package service

import (
	"github.com/eventdesk/eventdesk/internal/entity"
)

type transitionKey struct {
	from, to entity.RegistrationStatus
}

// transitionEffect describes everything an organizer-driven status change
// does, as a pure function of the edge taken. Edges missing from the table
// are rejected; a same-status call never reaches the table.
type transitionEffect struct {
	// debitInventory re-claims tickets when a cancelled registration is
	// brought back; the conditional update may refuse it.
	debitInventory bool
	// restoreInventory releases tickets and decrements the attendee counter.
	restoreInventory bool
	// refundIfPaid flips a paid registration to refunded (bookkeeping only).
	refundIfPaid bool
	// confirmAttendee issues the check-in code (once) and records the event
	// in the attendee's attended set.
	confirmAttendee bool
}

var organizerTransitions = map[transitionKey]transitionEffect{
	{entity.RegistrationStatusPending, entity.RegistrationStatusConfirmed}: {
		confirmAttendee: true,
	},
	{entity.RegistrationStatusAttended, entity.RegistrationStatusConfirmed}: {},
	{entity.RegistrationStatusCancelled, entity.RegistrationStatusConfirmed}: {
		debitInventory:  true,
		confirmAttendee: true,
	},
	{entity.RegistrationStatusPending, entity.RegistrationStatusCancelled}: {
		restoreInventory: true,
		refundIfPaid:     true,
	},
	{entity.RegistrationStatusConfirmed, entity.RegistrationStatusCancelled}: {
		restoreInventory: true,
		refundIfPaid:     true,
	},
	{entity.RegistrationStatusAttended, entity.RegistrationStatusCancelled}: {
		restoreInventory: true,
		refundIfPaid:     true,
	},
}
