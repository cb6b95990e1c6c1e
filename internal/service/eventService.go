package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/eventdesk/eventdesk/internal/database/postgres"
	"github.com/eventdesk/eventdesk/internal/entity"
)

// EventCache is the read-through cache for single-event lookups. A nil
// cache disables caching entirely.
type EventCache interface {
	Get(ctx context.Context, id int64) (*entity.Event, error)
	Set(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id int64) error
}

type TicketTierRequest struct {
	Type              string  `json:"type" binding:"required"`
	Price             float64 `json:"price" binding:"min=0"`
	Currency          string  `json:"currency"`
	AvailableQuantity *int    `json:"available_quantity"`
}

type CreateEventRequest struct {
	OrganizerID int64               `json:"-"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      entity.EventStatus  `json:"status"`
	StartsAt    time.Time           `json:"starts_at" binding:"required"`
	EndsAt      time.Time           `json:"ends_at" binding:"required"`
	Capacity    *int                `json:"capacity"`
	IsFree      bool                `json:"is_free"`
	Tickets     []TicketTierRequest `json:"tickets"`
}

// UpdateEventRequest uses pointers so absent fields are left untouched.
type UpdateEventRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Status      *entity.EventStatus `json:"status"`
	StartsAt    *time.Time          `json:"starts_at"`
	EndsAt      *time.Time          `json:"ends_at"`
	Capacity    *int                `json:"capacity"`
}

type eventService struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	notifier         NotificationService
	cache            EventCache
}

func NewEventService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	notifier NotificationService,
	cache EventCache,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
		cache:            cache,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	if req == nil || req.Title == "" {
		return nil, entity.ErrInvalidInput
	}
	if req.EndsAt.Before(req.StartsAt) {
		return nil, entity.ErrInvalidDates
	}

	status := req.Status
	if status == "" {
		status = entity.EventStatusDraft
	}
	switch status {
	case entity.EventStatusDraft, entity.EventStatusPublished:
	default:
		return nil, entity.ErrInvalidStatus
	}

	event := &entity.Event{
		OrganizerID: req.OrganizerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
		IsFree:      req.IsFree,
	}

	for _, t := range req.Tickets {
		if t.Type == "" || t.Price < 0 {
			return nil, entity.ErrInvalidInput
		}
		currency := t.Currency
		if currency == "" {
			currency = "USD"
		}
		event.Tickets = append(event.Tickets, entity.TicketTier{
			Type:              t.Type,
			Price:             t.Price,
			Currency:          currency,
			AvailableQuantity: t.AvailableQuantity,
		})
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logrus.Infof("Event %d created by organizer %d", event.ID, event.OrganizerID)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.Event, error) {
	if s.cache != nil {
		if event, err := s.cache.Get(ctx, id); err == nil {
			return event, nil
		}
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, event); err != nil {
			logrus.Warnf("Failed to cache event %d: %v", id, err)
		}
	}

	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := s.eventRepo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id, organizerID int64, req *UpdateEventRequest) (*entity.Event, error) {
	if req == nil {
		return nil, entity.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, entity.ErrForbidden
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.EventStatusDraft, entity.EventStatusPublished,
			entity.EventStatusCancelled, entity.EventStatusCompleted:
			event.Status = *req.Status
		default:
			return nil, entity.ErrInvalidStatus
		}
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, entity.ErrInvalidDates
	}
	if req.Capacity != nil {
		event.Capacity = req.Capacity
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.invalidate(ctx, id)

	return event, nil
}

// DeleteEvent removes the event and everything hanging off it. Attendees
// with a live (pending or confirmed) registration are notified first, while
// the event title can still be read; the notification carries no event
// reference since the event is about to disappear.
func (s *eventService) DeleteEvent(ctx context.Context, id, organizerID int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return entity.ErrForbidden
	}

	active, err := s.registrationRepo.GetByEventAndStatuses(ctx, id,
		entity.RegistrationStatusPending, entity.RegistrationStatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to list active registrations: %w", err)
	}

	for _, reg := range active {
		if _, err := s.notifier.Create(ctx, reg.AttendeeID, entity.NotificationEventUpdate,
			fmt.Sprintf("The event %q has been cancelled and removed by the organizer.", event.Title),
			nil); err != nil {
			logrus.Warnf("Failed to notify attendee %d about deletion of event %d: %v", reg.AttendeeID, id, err)
		}
	}

	deletedRegs, err := s.registrationRepo.DeleteByEventID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete registrations: %w", err)
	}

	deletedNotifs, err := s.notifier.DeleteAllForEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	logrus.Infof("Event %d deleted: %d registrations and %d notifications removed",
		id, deletedRegs, deletedNotifs)
	return nil
}

func (s *eventService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		logrus.Warnf("Failed to invalidate cached event %d: %v", id, err)
	}
}
