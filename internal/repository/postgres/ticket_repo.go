package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventticketing/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

const ticketColumns = "id, name, price, quantity, event_id, created_at, updated_at"

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (name, price, quantity, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, t.Name, t.Price, t.Quantity, t.EventID, t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`
	return scanTicket(r.DB.QueryRowContext(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Ticket, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *ticketRepository) ListAvailable(ctx context.Context) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE quantity > 0
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *ticketRepository) ListAvailableByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1 AND quantity > 0
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *ticketRepository) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", n))
		args = append(args, *upd.Price)
		n++
	}
	if upd.Quantity != nil {
		setClauses = append(setClauses, fmt.Sprintf("quantity = $%d", n))
		args = append(args, *upd.Quantity)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE tickets SET %s
		WHERE id = $%d
		RETURNING `+ticketColumns+`
	`, strings.Join(setClauses, ", "), n)
	return scanTicket(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *ticketRepository) SetQuantity(ctx context.Context, id string, quantity int) (*domain.Ticket, error) {
	query := `
		UPDATE tickets SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + ticketColumns + `
	`
	return scanTicket(r.DB.QueryRowContext(ctx, query, quantity, id))
}

// DecrementQuantity subtracts amount in a single conditional statement.
// The quantity >= amount guard runs inside the UPDATE itself, so two
// concurrent decrements can never both pass a stale check: the row lock
// serializes them and the loser sees the already-decremented value.
func (r *ticketRepository) DecrementQuantity(ctx context.Context, id string, amount int) (*domain.Ticket, bool, error) {
	query := `
		UPDATE tickets SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
		RETURNING ` + ticketColumns + `
	`
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, amount, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Missing row or insufficient quantity; caller disambiguates.
			return nil, false, nil
		}
		return nil, false, err
	}
	return t, true, nil
}

func (r *ticketRepository) IncrementQuantity(ctx context.Context, id string, amount int) (*domain.Ticket, error) {
	query := `
		UPDATE tickets SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + ticketColumns + `
	`
	return scanTicket(r.DB.QueryRowContext(ctx, query, amount, id))
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
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

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := row.Scan(&t.ID, &t.Name, &t.Price, &t.Quantity, &t.EventID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func collectTickets(rows *sql.Rows) ([]*domain.Ticket, error) {
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
