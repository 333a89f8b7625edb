package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventticketing/internal/domain"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{DB: db}
}

const attendeeColumns = "id, user_id, event_id, status, notes, is_paid, payment_amount, created_at, updated_at"

// Create inserts the registration in a single statement. The unique
// (user_id, event_id) constraint makes concurrent duplicate inserts fail
// with a unique violation, which is mapped to ErrAlreadyRegistered.
func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (user_id, event_id, status, notes, is_paid, payment_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.UserID, a.EventID, a.Status, a.Notes, a.IsPaid, a.PaymentAmount, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE id = $1
	`
	return scanAttendee(r.DB.QueryRowContext(ctx, query, id))
}

func (r *attendeeRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendees`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attendees, err := collectAttendees(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendees, total, nil
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendees(rows)
}

func (r *attendeeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendees(rows)
}

func (r *attendeeRepository) Update(ctx context.Context, id string, upd domain.AttendeeUpdate) (*domain.Attendee, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *upd.Status)
		n++
	}
	if upd.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", n))
		args = append(args, *upd.Notes)
		n++
	}
	if upd.IsPaid != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_paid = $%d", n))
		args = append(args, *upd.IsPaid)
		n++
	}
	if upd.PaymentAmount != nil {
		setClauses = append(setClauses, fmt.Sprintf("payment_amount = $%d", n))
		args = append(args, *upd.PaymentAmount)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE attendees SET %s
		WHERE id = $%d
		RETURNING `+attendeeColumns+`
	`, strings.Join(setClauses, ", "), n)
	return scanAttendee(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *attendeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendee(row rowScanner) (*domain.Attendee, error) {
	a := &domain.Attendee{}
	var notes sql.NullString
	var amount sql.NullFloat64
	err := row.Scan(&a.ID, &a.UserID, &a.EventID, &a.Status, &notes, &a.IsPaid, &amount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if amount.Valid {
		a.PaymentAmount = &amount.Float64
	}
	return a, nil
}

func collectAttendees(rows *sql.Rows) ([]*domain.Attendee, error) {
	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attendees, nil
}
