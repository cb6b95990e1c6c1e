package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	"github.com/eventdesk/eventdesk/internal/entity"
)

// RegisterRequest carries one registration attempt.
type RegisterRequest struct {
	UserID     int64  `json:"-"`
	EventID    int64  `json:"event_id" binding:"required"`
	TicketType string `json:"ticket_type" binding:"required"`
	Quantity   int    `json:"quantity" binding:"min=0,max=50"`
}

// ConfirmPaymentRequest carries a payment confirmation. Card details are
// accepted and logged but never validated or charged; there is no gateway
// behind this endpoint.
type ConfirmPaymentRequest struct {
	RegistrationID int64  `json:"-"`
	CallerID       int64  `json:"-"`
	CardNumber     string `json:"card_number"`
	CardHolder     string `json:"card_holder"`
}

// now is swapped out in tests.
var now = time.Now

type registrationService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	userRepo         repository.UserRepository
	notifier         NotificationService
	cache            EventCache
}

// NewRegistrationService creates the registration/inventory core. The
// cache may be nil; when set, every inventory mutation drops the cached
// event so reads repopulate it.
func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	cache EventCache,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		cache:            cache,
	}
}

// Register creates a new registration or reactivates a cancelled one.
// Precondition checks run in a fixed order so each failure is distinct:
// input, event existence, published, not in the past, tier, inventory.
func (s *registrationService) Register(ctx context.Context, req *RegisterRequest) (*entity.Registration, error) {
	if req == nil || req.EventID == 0 || req.TicketType == "" {
		return nil, entity.ErrInvalidInput
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, entity.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.Status != entity.EventStatusPublished {
		return nil, entity.ErrEventNotPublished
	}
	if event.StartsAt.Before(now()) {
		return nil, entity.ErrEventInPast
	}

	tier := event.TicketByType(req.TicketType)
	if tier == nil {
		return nil, entity.ErrTicketTypeNotFound
	}
	if tier.AvailableQuantity != nil && *tier.AvailableQuantity < quantity {
		return nil, entity.ErrInsufficientSeats
	}

	attendee, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, req.EventID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != entity.RegistrationStatusCancelled {
		return nil, entity.ErrAlreadyRegistered
	}

	// Claim inventory before writing the registration. The conditional
	// updates are the real guard: two racing claims cannot both drain the
	// last tickets or overshoot the event capacity.
	if tier.AvailableQuantity != nil {
		if err := s.eventRepo.AdjustTicketQuantity(ctx, event.ID, tier.Type, -quantity); err != nil {
			return nil, err
		}
	}
	if err := s.eventRepo.AdjustAttendees(ctx, event.ID, quantity); err != nil {
		// Give the tier debit back, the capacity ceiling refused the claim.
		if tier.AvailableQuantity != nil {
			if rbErr := s.eventRepo.AdjustTicketQuantity(ctx, event.ID, tier.Type, quantity); rbErr != nil {
				logrus.Errorf("Failed to return %d tickets of %s/%s after refused claim: %v",
					quantity, event.Title, tier.Type, rbErr)
			}
		}
		return nil, err
	}
	s.invalidateEvent(ctx, event.ID)

	paymentStatus := entity.PaymentStatusUnpaid
	paymentMethod := entity.PaymentMethod("")
	if event.IsFree {
		paymentStatus = entity.PaymentStatusPaid
		paymentMethod = entity.PaymentMethodFree
	}

	var reg *entity.Registration
	reactivated := existing != nil

	if reactivated {
		// Reactivation overwrites the cancelled row in place, keeping its
		// identity and check-in code slot.
		reg = existing
		reg.TicketType = tier.Type
		reg.Quantity = quantity
		reg.TotalPrice = tier.Price * float64(quantity)
		reg.Currency = tier.Currency
		reg.Status = entity.RegistrationStatusPending
		reg.PaymentStatus = paymentStatus
		reg.PaymentMethod = paymentMethod

		if err := s.registrationRepo.Update(ctx, reg); err != nil {
			return nil, err
		}
	} else {
		reg = &entity.Registration{
			EventID:       event.ID,
			AttendeeID:    attendee.ID,
			TicketType:    tier.Type,
			Quantity:      quantity,
			TotalPrice:    tier.Price * float64(quantity),
			Currency:      tier.Currency,
			Status:        entity.RegistrationStatusPending,
			PaymentStatus: paymentStatus,
			PaymentMethod: paymentMethod,
		}

		if err := s.registrationRepo.Create(ctx, reg); err != nil {
			return nil, err
		}
	}

	logrus.Infof("Registration %d: user=%d event=%d tickets=%dx%s",
		reg.ID, reg.AttendeeID, reg.EventID, reg.Quantity, reg.TicketType)

	if event.IsFree {
		if err := s.confirmRegistration(ctx, reg); err != nil {
			return nil, err
		}

		wording := "confirmed"
		if reactivated {
			wording = "reconfirmed"
		}
		s.notify(ctx, reg.AttendeeID, entity.NotificationParticipation,
			fmt.Sprintf("Your registration for %q has been %s. See you there!", event.Title, wording),
			&event.ID)
		s.notify(ctx, event.OrganizerID, entity.NotificationEventUpdate,
			fmt.Sprintf("%s was auto-%s for %q (%d ticket(s)).", attendee.Name, wording, event.Title, reg.Quantity),
			&event.ID)
	} else {
		s.notify(ctx, reg.AttendeeID, entity.NotificationEventInvite,
			fmt.Sprintf("You are registered for %q. Complete the payment to confirm your spot.", event.Title),
			&event.ID)
		s.notify(ctx, event.OrganizerID, entity.NotificationEventUpdate,
			fmt.Sprintf("%s registered for %q (%d ticket(s)), awaiting payment.", attendee.Name, event.Title, reg.Quantity),
			&event.ID)
	}

	return reg, nil
}

// Cancel sets the caller's registration to cancelled and releases its
// inventory. A second cancel is rejected before any side effect, so
// inventory is restored exactly once.
func (s *registrationService) Cancel(ctx context.Context, registrationID, callerID int64) error {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if reg.AttendeeID != callerID {
		return entity.ErrForbidden
	}
	if reg.Status == entity.RegistrationStatusCancelled {
		return entity.ErrAlreadyCancelled
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return err
	}

	// Only the status and payment columns change here, so the narrow
	// updates are enough.
	reg.Status = entity.RegistrationStatusCancelled
	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, entity.RegistrationStatusCancelled); err != nil {
		return err
	}
	if reg.PaymentStatus == entity.PaymentStatusPaid {
		reg.PaymentStatus = entity.PaymentStatusRefunded
		if err := s.registrationRepo.UpdatePayment(ctx, reg.ID, entity.PaymentStatusRefunded, reg.PaymentMethod); err != nil {
			return err
		}
	}

	if err := s.releaseInventory(ctx, reg, event); err != nil {
		return err
	}

	logrus.Infof("Registration %d cancelled by attendee %d", reg.ID, callerID)

	attendee, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	s.notify(ctx, event.OrganizerID, entity.NotificationEventUpdate,
		fmt.Sprintf("%s cancelled their registration for %q (%d ticket(s) released).", attendee.Name, event.Title, reg.Quantity),
		&event.ID)

	return nil
}

// SetStatus is the organizer-driven transition. Side effects follow the
// transition table; a same-status call is a persisted no-op.
func (s *registrationService) SetStatus(ctx context.Context, registrationID, organizerID int64, newStatus entity.RegistrationStatus) (*entity.Registration, error) {
	if newStatus != entity.RegistrationStatusConfirmed && newStatus != entity.RegistrationStatusCancelled {
		return nil, entity.ErrInvalidStatus
	}

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, entity.ErrForbidden
	}

	if reg.Status == newStatus {
		// Same-status call is a persisted no-op: the row is written back
		// unchanged, no side effects run.
		if err := s.registrationRepo.Update(ctx, reg); err != nil {
			return nil, err
		}
		return reg, nil
	}

	effect, ok := organizerTransitions[transitionKey{from: reg.Status, to: newStatus}]
	if !ok {
		return nil, entity.ErrInvalidStatus
	}

	if effect.debitInventory {
		tier := event.TicketByType(reg.TicketType)
		if tier != nil && tier.AvailableQuantity != nil {
			if err := s.eventRepo.AdjustTicketQuantity(ctx, event.ID, tier.Type, -reg.Quantity); err != nil {
				return nil, err
			}
		}
		if err := s.eventRepo.AdjustAttendees(ctx, event.ID, reg.Quantity); err != nil {
			if tier != nil && tier.AvailableQuantity != nil {
				if rbErr := s.eventRepo.AdjustTicketQuantity(ctx, event.ID, tier.Type, reg.Quantity); rbErr != nil {
					logrus.Errorf("Failed to return %d tickets of %s/%s after refused claim: %v",
						reg.Quantity, event.Title, tier.Type, rbErr)
				}
			}
			return nil, err
		}
		s.invalidateEvent(ctx, event.ID)
	}

	reg.Status = newStatus
	if effect.refundIfPaid && reg.PaymentStatus == entity.PaymentStatusPaid {
		reg.PaymentStatus = entity.PaymentStatusRefunded
	}
	if effect.confirmAttendee && reg.CheckInCode == "" {
		reg.CheckInCode = uuid.NewString()
	}

	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	if effect.restoreInventory {
		if err := s.releaseInventory(ctx, reg, event); err != nil {
			return nil, err
		}
	}
	if effect.confirmAttendee {
		if err := s.userRepo.AddAttendedEvent(ctx, reg.AttendeeID, reg.EventID); err != nil {
			return nil, err
		}
	}

	logrus.Infof("Registration %d moved to %s by organizer %d", reg.ID, newStatus, organizerID)

	if newStatus == entity.RegistrationStatusCancelled {
		s.notify(ctx, reg.AttendeeID, entity.NotificationEventUpdate,
			fmt.Sprintf("Your registration for %q was cancelled by the organizer.", event.Title),
			&event.ID)
		s.notify(ctx, organizerID, entity.NotificationEventUpdate,
			fmt.Sprintf("You cancelled a registration for %q (%d ticket(s) released).", event.Title, reg.Quantity),
			&event.ID)
	} else {
		s.notify(ctx, reg.AttendeeID, entity.NotificationParticipation,
			fmt.Sprintf("Your registration for %q has been confirmed by the organizer.", event.Title),
			&event.ID)
		s.notify(ctx, organizerID, entity.NotificationEventUpdate,
			fmt.Sprintf("You confirmed a registration for %q.", event.Title),
			&event.ID)
	}

	return reg, nil
}

// ConfirmPayment marks the registration paid and, if it was pending,
// promotes it to confirmed. This and the free-event auto-confirm are the
// only attendee-side paths from pending to confirmed.
func (s *registrationService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*entity.Registration, error) {
	if req == nil || req.RegistrationID == 0 {
		return nil, entity.ErrInvalidInput
	}

	reg, err := s.registrationRepo.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return nil, err
	}

	if reg.AttendeeID != req.CallerID {
		return nil, entity.ErrForbidden
	}
	if reg.PaymentStatus == entity.PaymentStatusPaid {
		return nil, entity.ErrAlreadyPaid
	}
	if reg.Status != entity.RegistrationStatusPending && reg.Status != entity.RegistrationStatusConfirmed {
		return nil, entity.ErrNotPayable
	}

	// No gateway behind this: card details are logged, never charged.
	logrus.Infof("Payment submitted for registration %d (card ending %s)",
		reg.ID, cardSuffix(req.CardNumber))

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}

	reg.PaymentStatus = entity.PaymentStatusPaid
	reg.PaymentMethod = entity.PaymentMethodCard
	if reg.Status == entity.RegistrationStatusPending {
		if err := s.confirmRegistration(ctx, reg); err != nil {
			return nil, err
		}
	} else if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	attendee, err := s.userRepo.GetByID(ctx, reg.AttendeeID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, reg.AttendeeID, entity.NotificationParticipation,
		fmt.Sprintf("Payment received. Your registration for %q is confirmed.", event.Title),
		&event.ID)
	s.notify(ctx, event.OrganizerID, entity.NotificationEventUpdate,
		fmt.Sprintf("%s paid for %q (%d ticket(s)).", attendee.Name, event.Title, reg.Quantity),
		&event.ID)

	return reg, nil
}

func (s *registrationService) GetUserRegistrations(ctx context.Context, userID int64) ([]*entity.Registration, error) {
	regs, err := s.registrationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user registrations: %w", err)
	}
	return regs, nil
}

func (s *registrationService) GetEventRegistrations(ctx context.Context, eventID, organizerID int64) ([]*entity.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, entity.ErrForbidden
	}

	regs, err := s.registrationRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event registrations: %w", err)
	}
	return regs, nil
}

func (s *registrationService) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	return reg != nil && reg.IsActive(), nil
}

// confirmRegistration moves a registration to confirmed, issues the
// check-in code exactly once and records attendance.
func (s *registrationService) confirmRegistration(ctx context.Context, reg *entity.Registration) error {
	reg.Status = entity.RegistrationStatusConfirmed
	if reg.CheckInCode == "" {
		reg.CheckInCode = uuid.NewString()
	}

	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return err
	}

	return s.userRepo.AddAttendedEvent(ctx, reg.AttendeeID, reg.EventID)
}

// releaseInventory gives the registration's tickets back to the tier (when
// tracked) and decrements the attendee counter, floored at zero.
func (s *registrationService) releaseInventory(ctx context.Context, reg *entity.Registration, event *entity.Event) error {
	tier := event.TicketByType(reg.TicketType)
	if tier != nil && tier.AvailableQuantity != nil {
		if err := s.eventRepo.AdjustTicketQuantity(ctx, event.ID, tier.Type, reg.Quantity); err != nil {
			return err
		}
	}
	if err := s.eventRepo.AdjustAttendees(ctx, event.ID, -reg.Quantity); err != nil {
		return err
	}
	s.invalidateEvent(ctx, event.ID)
	return nil
}

// invalidateEvent drops the cached event after an inventory mutation so
// the next read sees fresh quantities.
func (s *registrationService) invalidateEvent(ctx context.Context, eventID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, eventID); err != nil {
		logrus.Warnf("Failed to invalidate cached event %d: %v", eventID, err)
	}
}

// notify creates a notification best-effort: delivery problems are logged
// and never fail the operation that triggered them.
func (s *registrationService) notify(ctx context.Context, userID int64, ntype entity.NotificationType, message string, eventID *int64) {
	if _, err := s.notifier.Create(ctx, userID, ntype, message, eventID); err != nil {
		logrus.Warnf("Failed to create %s notification for user %d: %v", ntype, userID, err)
	}
}

func cardSuffix(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
