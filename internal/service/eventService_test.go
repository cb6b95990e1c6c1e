package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/entity"
)

type fakeCache struct {
	events  map[int64]*entity.Event
	sets    int
	hits    int
	deletes []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{events: make(map[int64]*entity.Event)}
}

func (c *fakeCache) Get(ctx context.Context, id int64) (*entity.Event, error) {
	event, found := c.events[id]
	if !found {
		return nil, errors.New("cache miss")
	}
	c.hits++
	return event, nil
}

func (c *fakeCache) Set(ctx context.Context, event *entity.Event) error {
	c.events[event.ID] = event
	c.sets++
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, id int64) error {
	delete(c.events, id)
	c.deletes = append(c.deletes, id)
	return nil
}

type eventFixture struct {
	*registrationFixture
	cache        *fakeCache
	eventService EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	base := newRegistrationFixture(t)
	cache := newFakeCache()
	notifier := NewNotificationService(base.notifications, base.users, nil)

	return &eventFixture{
		registrationFixture: base,
		cache:               cache,
		eventService:        NewEventService(base.events, base.registrations, notifier, cache),
	}
}

func TestCreateEventValidatesDates(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.eventService.CreateEvent(context.Background(), &CreateEventRequest{
		OrganizerID: f.organizer.ID,
		Title:       "Backwards",
		StartsAt:    time.Now().Add(48 * time.Hour),
		EndsAt:      time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, entity.ErrInvalidDates)
}

func TestCreateEventDefaults(t *testing.T) {
	f := newEventFixture(t)

	quantity := 100
	event, err := f.eventService.CreateEvent(context.Background(), &CreateEventRequest{
		OrganizerID: f.organizer.ID,
		Title:       "GopherCon",
		StartsAt:    time.Now().Add(24 * time.Hour),
		EndsAt:      time.Now().Add(30 * time.Hour),
		Tickets: []TicketTierRequest{
			{Type: "standard", Price: 25, AvailableQuantity: &quantity},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.EventStatusDraft, event.Status)
	require.Len(t, event.Tickets, 1)
	assert.Equal(t, "USD", event.Tickets[0].Currency)
}

func TestGetAllEventsIncludesDrafts(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	published := f.seedEvent(t, false, 10)
	draft := f.seedEvent(t, false, 10)
	draft.Status = entity.EventStatusDraft
	require.NoError(t, f.events.Update(ctx, draft))

	events, err := f.eventService.GetAllEvents(ctx)
	require.NoError(t, err)

	ids := make([]int64, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	assert.ElementsMatch(t, []int64{published.ID, draft.ID}, ids)
}

func TestGetEventUsesCache(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)
	ctx := context.Background()

	first, err := f.eventService.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	second, err := f.eventService.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdateEventInvalidatesCache(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)
	ctx := context.Background()

	_, err := f.eventService.GetEvent(ctx, event.ID)
	require.NoError(t, err)

	title := "Renamed"
	updated, err := f.eventService.UpdateEvent(ctx, event.ID, f.organizer.ID, &UpdateEventRequest{
		Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Contains(t, f.cache.deletes, event.ID)
}

func TestUpdateEventRequiresOrganizer(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)

	title := "Hijacked"
	_, err := f.eventService.UpdateEvent(context.Background(), event.ID, f.attendee.ID, &UpdateEventRequest{
		Title: &title,
	})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestDeleteEventCascade(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, &RegisterRequest{
		UserID: f.attendee.ID, EventID: event.ID, TicketType: "standard",
	})
	require.NoError(t, err)

	beforeDeletion := f.notifications.countForUser(f.attendee.ID, entity.NotificationEventUpdate)

	require.NoError(t, f.eventService.DeleteEvent(ctx, event.ID, f.organizer.ID))

	// Event and its registrations are gone.
	_, err = f.events.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
	_, err = f.registrations.GetByID(ctx, reg.ID)
	assert.ErrorIs(t, err, entity.ErrRegistrationNotFound)

	// The attendee was told before their registration disappeared; the
	// deletion notice survives the cascade because it carries no event
	// reference.
	assert.Equal(t, beforeDeletion+1, f.notifications.countForUser(f.attendee.ID, entity.NotificationEventUpdate))
	remaining, err := f.notifications.GetByUserID(ctx, f.attendee.ID)
	require.NoError(t, err)
	for _, n := range remaining {
		assert.Nil(t, n.EventID)
	}

	assert.Contains(t, f.cache.deletes, event.ID)
}

func TestDeleteEventRequiresOrganizer(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)

	err := f.eventService.DeleteEvent(context.Background(), event.ID, f.attendee.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.events.GetByID(context.Background(), event.ID)
	assert.NoError(t, err)
}

func TestDeleteEventSkipsCancelledRegistrations(t *testing.T) {
	f := newEventFixture(t)
	event := f.seedEvent(t, false, 10)
	ctx := context.Background()

	reg, err := f.service.Register(ctx, &RegisterRequest{
		UserID: f.attendee.ID, EventID: event.ID, TicketType: "standard",
	})
	require.NoError(t, err)
	require.NoError(t, f.service.Cancel(ctx, reg.ID, f.attendee.ID))

	before := f.notifications.countForUser(f.attendee.ID, entity.NotificationEventUpdate)
	require.NoError(t, f.eventService.DeleteEvent(ctx, event.ID, f.organizer.ID))

	// Cancelled attendees are not notified about the deletion.
	assert.Equal(t, before, f.notifications.countForUser(f.attendee.ID, entity.NotificationEventUpdate))
}
