package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eventdesk/eventdesk/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts the event and its ticket tiers in one transaction.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `
		INSERT INTO events (organizer_id, title, description, status, starts_at, ends_at,
			capacity, current_attendees, is_free, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Status,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.IsFree,
		now,
		now,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	for i := range event.Tickets {
		tier := &event.Tickets[i]
		tier.EventID = event.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO event_tickets (event_id, type, price, currency, available_quantity)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			tier.EventID, tier.Type, tier.Price, tier.Currency, tier.AvailableQuantity,
		).Scan(&tier.ID)
		if err != nil {
			return fmt.Errorf("failed to create ticket tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `
		SELECT id, organizer_id, title, description, status, starts_at, ends_at,
			capacity, current_attendees, is_free, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event entity.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Status,
		&event.StartsAt,
		&event.EndsAt,
		&event.Capacity,
		&event.CurrentAttendees,
		&event.IsFree,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	tickets, err := r.getTickets(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Tickets = tickets

	return &event, nil
}

func (r *eventRepository) getTickets(ctx context.Context, eventID int64) ([]entity.TicketTier, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, type, price, currency, available_quantity
		 FROM event_tickets WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket tiers: %w", err)
	}
	defer rows.Close()

	var tickets []entity.TicketTier
	for rows.Next() {
		var t entity.TicketTier
		if err := rows.Scan(&t.ID, &t.EventID, &t.Type, &t.Price, &t.Currency, &t.AvailableQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan ticket tier: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket tiers: %w", err)
	}

	return tickets, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	query := `
		SELECT id, organizer_id, title, description, status, starts_at, ends_at,
			capacity, current_attendees, is_free, created_at, updated_at
		FROM events
		ORDER BY starts_at
	`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) GetUpcoming(ctx context.Context, limit int) ([]*entity.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, organizer_id, title, description, status, starts_at, ends_at,
			capacity, current_attendees, is_free, created_at, updated_at
		FROM events
		WHERE status = 'published' AND starts_at > $1
		ORDER BY starts_at
		LIMIT $2
	`
	return r.queryEvents(ctx, query, time.Now(), limit)
}

func (r *eventRepository) GetStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Event, error) {
	query := `
		SELECT id, organizer_id, title, description, status, starts_at, ends_at,
			capacity, current_attendees, is_free, created_at, updated_at
		FROM events
		WHERE status = 'published' AND starts_at BETWEEN $1 AND $2
		ORDER BY starts_at
	`
	return r.queryEvents(ctx, query, from, to)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.OrganizerID,
			&event.Title,
			&event.Description,
			&event.Status,
			&event.StartsAt,
			&event.EndsAt,
			&event.Capacity,
			&event.CurrentAttendees,
			&event.IsFree,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	for _, event := range events {
		tickets, err := r.getTickets(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		event.Tickets = tickets
	}

	return events, nil
}

// Update rewrites the editable fields. The organizer relation is immutable.
func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, status = $3, starts_at = $4, ends_at = $5,
			capacity = $6, is_free = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Status,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.IsFree,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

// AdjustTicketQuantity applies delta to a tracked tier in one conditional
// UPDATE. Tiers with NULL available_quantity are unlimited and left alone.
// A debit that would go negative affects zero rows and is reported as
// ErrInsufficientSeats, which closes the oversell race between the
// availability check and the write.
func (r *eventRepository) AdjustTicketQuantity(ctx context.Context, eventID int64, ticketType string, delta int) error {
	var query string
	if delta < 0 {
		query = `
			UPDATE event_tickets
			SET available_quantity = available_quantity + $1
			WHERE event_id = $2 AND type = $3
				AND available_quantity IS NOT NULL
				AND available_quantity >= -$1
		`
	} else {
		query = `
			UPDATE event_tickets
			SET available_quantity = available_quantity + $1
			WHERE event_id = $2 AND type = $3
				AND available_quantity IS NOT NULL
		`
	}

	result, err := r.db.ExecContext(ctx, query, delta, eventID, ticketType)
	if err != nil {
		return fmt.Errorf("failed to adjust ticket quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 && delta < 0 {
		// Either the tier vanished or the debit would overdraw it. Callers
		// resolve the tier before debiting, so report the latter.
		return entity.ErrInsufficientSeats
	}

	return nil
}

// AdjustAttendees moves the counter by delta in one conditional UPDATE,
// same shape as AdjustTicketQuantity. An increment that would push the
// counter past a set capacity affects zero rows and is reported as
// ErrInsufficientSeats; a decrement is floored at zero.
func (r *eventRepository) AdjustAttendees(ctx context.Context, eventID int64, delta int) error {
	var query string
	if delta > 0 {
		query = `
			UPDATE events
			SET current_attendees = current_attendees + $1, updated_at = $2
			WHERE id = $3
				AND (capacity IS NULL OR current_attendees + $1 <= capacity)
		`
	} else {
		query = `
			UPDATE events
			SET current_attendees = GREATEST(current_attendees + $1, 0), updated_at = $2
			WHERE id = $3
		`
	}

	result, err := r.db.ExecContext(ctx, query, delta, time.Now(), eventID)
	if err != nil {
		return fmt.Errorf("failed to adjust attendee count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if delta > 0 {
			// Callers load the event before incrementing, so zero rows
			// means the capacity ceiling, not a missing event.
			return entity.ErrInsufficientSeats
		}
		return entity.ErrEventNotFound
	}

	return nil
}
