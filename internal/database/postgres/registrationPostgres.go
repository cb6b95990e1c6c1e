package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/eventdesk/eventdesk/internal/entity"
)

const uniqueViolation = "23505"

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `
	id, event_id, attendee_id, ticket_type, quantity, total_price, currency,
	status, payment_status, payment_method, check_in_code, created_at, updated_at`

func scanRegistration(row interface{ Scan(...interface{}) error }) (*entity.Registration, error) {
	var reg entity.Registration
	var method sql.NullString
	var code sql.NullString
	err := row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.AttendeeID,
		&reg.TicketType,
		&reg.Quantity,
		&reg.TotalPrice,
		&reg.Currency,
		&reg.Status,
		&reg.PaymentStatus,
		&method,
		&code,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.PaymentMethod = entity.PaymentMethod(method.String)
	reg.CheckInCode = code.String
	return &reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	query := `
		INSERT INTO registrations (event_id, attendee_id, ticket_type, quantity, total_price,
			currency, status, payment_status, payment_method, check_in_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11, $12)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		reg.EventID,
		reg.AttendeeID,
		reg.TicketType,
		reg.Quantity,
		reg.TotalPrice,
		reg.Currency,
		reg.Status,
		reg.PaymentStatus,
		string(reg.PaymentMethod),
		reg.CheckInCode,
		now,
		now,
	).Scan(&reg.ID)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return entity.ErrAlreadyRegistered
	}
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}

	reg.CreatedAt = now
	reg.UpdatedAt = now
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*entity.Registration, error) {
	query := `SELECT` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// GetByEventAndUser returns (nil, nil) when the pair has no registration.
func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*entity.Registration, error) {
	query := `SELECT` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND attendee_id = $2`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, eventID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration by event and user: %w", err)
	}
	return reg, nil
}

// Update rewrites all mutable fields; used by the reactivation path, which
// overwrites a cancelled row in place.
func (r *registrationRepository) Update(ctx context.Context, reg *entity.Registration) error {
	query := `
		UPDATE registrations
		SET ticket_type = $1, quantity = $2, total_price = $3, currency = $4,
			status = $5, payment_status = $6, payment_method = NULLIF($7, ''),
			check_in_code = NULLIF($8, ''), updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		reg.TicketType,
		reg.Quantity,
		reg.TotalPrice,
		reg.Currency,
		reg.Status,
		reg.PaymentStatus,
		string(reg.PaymentMethod),
		reg.CheckInCode,
		time.Now(),
		reg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrRegistrationNotFound
	}

	return nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id int64, status entity.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrRegistrationNotFound
	}

	return nil
}

func (r *registrationRepository) UpdatePayment(ctx context.Context, id int64, status entity.PaymentStatus, method entity.PaymentMethod) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET payment_status = $1, payment_method = NULLIF($2, ''), updated_at = $3 WHERE id = $4`,
		status, string(method), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update registration payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrRegistrationNotFound
	}

	return nil
}

func (r *registrationRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Registration, error) {
	query := `SELECT` + registrationColumns + `
		FROM registrations
		WHERE attendee_id = $1
		ORDER BY created_at DESC`
	return r.queryRegistrations(ctx, query, userID)
}

func (r *registrationRepository) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Registration, error) {
	query := `SELECT` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC`
	return r.queryRegistrations(ctx, query, eventID)
}

func (r *registrationRepository) GetByEventAndStatuses(ctx context.Context, eventID int64, statuses ...entity.RegistrationStatus) ([]*entity.Registration, error) {
	if len(statuses) == 0 {
		return r.GetByEventID(ctx, eventID)
	}

	placeholders := make([]string, 0, len(statuses))
	args := []interface{}{eventID}
	for i, status := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, status)
	}

	query := `SELECT` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND status IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY created_at DESC`
	return r.queryRegistrations(ctx, query, args...)
}

func (r *registrationRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*entity.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	var regs []*entity.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

func (r *registrationRepository) DeleteByEventID(ctx context.Context, eventID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete registrations by event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
