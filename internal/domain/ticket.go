package domain

import (
	"context"
	"time"
)

// Ticket represents one priced allocation tier belonging to one event,
// e.g. "General Admission". Quantity is the remaining allocation and is
// never negative; zero means sold out, not deleted.
// swagger:model Ticket
type Ticket struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTicket creates a new Ticket. ID is set by the repository on create.
func NewTicket(name string, price float64, quantity int, eventID string, createdAt, updatedAt time.Time) *Ticket {
	return &Ticket{
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		EventID:   eventID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// TicketUpdate carries the optional fields of a partial ticket update.
// Nil fields are left untouched.
type TicketUpdate struct {
	Name     *string
	Price    *float64
	Quantity *int
}

// TicketRepository defines storage operations for tickets. The relative
// quantity adjustments are single conditional statements so concurrent
// adjustments can neither lose updates nor drive quantity below zero.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, p PaginationParams) ([]*Ticket, int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Ticket, error)
	ListAvailable(ctx context.Context) ([]*Ticket, error)
	ListAvailableByEventID(ctx context.Context, eventID string) ([]*Ticket, error)
	Update(ctx context.Context, id string, upd TicketUpdate) (*Ticket, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*Ticket, error)
	// DecrementQuantity subtracts amount only when the current quantity is
	// at least amount. It returns (nil, false, nil) when the guard fails or
	// the ticket does not exist; callers disambiguate via GetByID.
	DecrementQuantity(ctx context.Context, id string, amount int) (*Ticket, bool, error)
	IncrementQuantity(ctx context.Context, id string, amount int) (*Ticket, error)
	Delete(ctx context.Context, id string) error
}

// CreateTicketInput is the input for TicketService.Create.
type CreateTicketInput struct {
	Name     string
	Price    float64
	Quantity int
	EventID  string
}

// TicketService owns ticket records and all quantity mutations. Quantity
// never goes negative; over-allocation on decrease is rejected with
// ErrInvalidInput reporting how many tickets remain.
type TicketService interface {
	Create(ctx context.Context, in CreateTicketInput) (*Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	List(ctx context.Context, p PaginationParams) ([]*Ticket, int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Ticket, error)
	ListAvailable(ctx context.Context) ([]*Ticket, error)
	ListAvailableByEventID(ctx context.Context, eventID string) ([]*Ticket, error)
	Update(ctx context.Context, id string, upd TicketUpdate) (*Ticket, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*Ticket, error)
	Decrease(ctx context.Context, id string, amount int) (*Ticket, error)
	Increase(ctx context.Context, id string, amount int) (*Ticket, error)
	Delete(ctx context.Context, id string) error
}
