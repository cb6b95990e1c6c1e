package service

import (
	"context"
	"sync"
	"time"

	"github.com/eventdesk/eventdesk/internal/entity"
)

// In-memory repository fakes mirroring the postgres semantics: conditional
// inventory updates, (event, attendee) uniqueness, attendee floor at zero.

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: make(map[int64]*entity.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	r.nextID++
	for i := range event.Tickets {
		event.Tickets[i].EventID = event.ID
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, found := r.events[id]
	if !found {
		return nil, entity.ErrEventNotFound
	}
	copied := *event
	copied.Tickets = append([]entity.TicketTier(nil), event.Tickets...)
	return &copied, nil
}

func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []*entity.Event
	for _, event := range r.events {
		events = append(events, event)
	}
	return events, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.events[event.ID]; !found {
		return entity.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.events[id]; !found {
		return entity.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []*entity.Event
	for _, event := range r.events {
		if event.Status == entity.EventStatusPublished && event.StartsAt.After(time.Now()) {
			events = append(events, event)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (r *fakeEventRepo) GetStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []*entity.Event
	for _, event := range r.events {
		if event.StartsAt.After(from) && event.StartsAt.Before(to) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) AdjustTicketQuantity(ctx context.Context, eventID int64, ticketType string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, found := r.events[eventID]
	if !found {
		return entity.ErrEventNotFound
	}
	tier := event.TicketByType(ticketType)
	if tier == nil || tier.AvailableQuantity == nil {
		if delta < 0 {
			return entity.ErrInsufficientSeats
		}
		return nil
	}
	if *tier.AvailableQuantity+delta < 0 {
		return entity.ErrInsufficientSeats
	}
	*tier.AvailableQuantity += delta
	return nil
}

func (r *fakeEventRepo) AdjustAttendees(ctx context.Context, eventID int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, found := r.events[eventID]
	if !found {
		return entity.ErrEventNotFound
	}
	if delta > 0 && event.Capacity != nil && event.CurrentAttendees+delta > *event.Capacity {
		return entity.ErrInsufficientSeats
	}
	event.CurrentAttendees += delta
	if event.CurrentAttendees < 0 {
		event.CurrentAttendees = 0
	}
	return nil
}

func (r *fakeEventRepo) available(eventID int64, ticketType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	tier := r.events[eventID].TicketByType(ticketType)
	return *tier.AvailableQuantity
}

type fakeRegistrationRepo struct {
	mu            sync.Mutex
	nextID        int64
	registrations map[int64]*entity.Registration
	updates       int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{nextID: 1, registrations: make(map[int64]*entity.Registration)}
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *entity.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.registrations {
		if existing.EventID == reg.EventID && existing.AttendeeID == reg.AttendeeID {
			return entity.ErrAlreadyRegistered
		}
	}
	reg.ID = r.nextID
	r.nextID++
	copied := *reg
	r.registrations[reg.ID] = &copied
	return nil
}

func (r *fakeRegistrationRepo) GetByID(ctx context.Context, id int64) (*entity.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, found := r.registrations[id]
	if !found {
		return nil, entity.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*entity.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.EventID == eventID && reg.AttendeeID == userID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) Update(ctx context.Context, reg *entity.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.registrations[reg.ID]; !found {
		return entity.ErrRegistrationNotFound
	}
	copied := *reg
	r.registrations[reg.ID] = &copied
	r.updates++
	return nil
}

func (r *fakeRegistrationRepo) UpdateStatus(ctx context.Context, id int64, status entity.RegistrationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, found := r.registrations[id]
	if !found {
		return entity.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegistrationRepo) UpdatePayment(ctx context.Context, id int64, status entity.PaymentStatus, method entity.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, found := r.registrations[id]
	if !found {
		return entity.ErrRegistrationNotFound
	}
	reg.PaymentStatus = status
	reg.PaymentMethod = method
	return nil
}

func (r *fakeRegistrationRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var regs []*entity.Registration
	for _, reg := range r.registrations {
		if reg.AttendeeID == userID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, nil
}

func (r *fakeRegistrationRepo) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var regs []*entity.Registration
	for _, reg := range r.registrations {
		if reg.EventID == eventID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, nil
}

func (r *fakeRegistrationRepo) GetByEventAndStatuses(ctx context.Context, eventID int64, statuses ...entity.RegistrationStatus) ([]*entity.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var regs []*entity.Registration
	for _, reg := range r.registrations {
		if reg.EventID != eventID {
			continue
		}
		for _, status := range statuses {
			if reg.Status == status {
				copied := *reg
				regs = append(regs, &copied)
				break
			}
		}
	}
	return regs, nil
}

func (r *fakeRegistrationRepo) DeleteByEventID(ctx context.Context, eventID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, reg := range r.registrations {
		if reg.EventID == eventID {
			delete(r.registrations, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*entity.User
	attended map[int64]map[int64]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID:   1,
		users:    make(map[int64]*entity.User),
		attended: make(map[int64]map[int64]bool),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return entity.ErrUserAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, found := r.users[id]
	if !found {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) AddAttendedEvent(ctx context.Context, userID, eventID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attended[userID] == nil {
		r.attended[userID] = make(map[int64]bool)
	}
	r.attended[userID][eventID] = true
	return nil
}

func (r *fakeUserRepo) GetAttendedEvents(ctx context.Context, userID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []int64
	for eventID := range r.attended[userID] {
		events = append(events, eventID)
	}
	return events, nil
}

func (r *fakeUserRepo) hasAttended(userID, eventID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attended[userID][eventID]
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID
	r.nextID++
	copied := *n
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return entity.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) DeleteByEventID(ctx context.Context, eventID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.Notification
	var deleted int64
	for _, n := range r.notifications {
		if n.EventID != nil && *n.EventID == eventID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return deleted, nil
}

func (r *fakeNotificationRepo) HasReminder(ctx context.Context, userID, eventID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID && n.Type == entity.NotificationReminder &&
			n.EventID != nil && *n.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) countForUser(userID int64, ntype entity.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && n.Type == ntype {
			count++
		}
	}
	return count
}
