package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventticketing/internal/domain"
)

type ticketService struct {
	ticketRepo domain.TicketRepository
	publisher  domain.Publisher
	logger     *slog.Logger
}

// NewTicketService creates a TicketService. publisher may be nil; quantity
// change messages are skipped when absent.
func NewTicketService(ticketRepo domain.TicketRepository, publisher domain.Publisher, logger *slog.Logger) domain.TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create validates non-negativity and inserts the ticket. Whether the event
// id resolves is the caller's concern; the ledger does not consult the
// catalog.
func (s *ticketService) Create(ctx context.Context, in domain.CreateTicketInput) (*domain.Ticket, error) {
	if in.Price < 0 {
		return nil, domain.NewInvalidInput("Price cannot be negative")
	}
	if in.Quantity < 0 {
		return nil, domain.NewInvalidInput("Quantity cannot be negative")
	}
	now := time.Now()
	ticket := domain.NewTicket(in.Name, in.Price, in.Quantity, in.EventID, now, now)
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("ticket", id)
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (s *ticketService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Ticket, int, error) {
	tickets, total, err := s.ticketRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, total, nil
}

func (s *ticketService) ListByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tickets by event: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) ListAvailable(ctx context.Context) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) ListAvailableByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.ListAvailableByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list available tickets by event: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, domain.NewInvalidInput("Price cannot be negative")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return nil, domain.NewInvalidInput("Quantity cannot be negative")
	}
	t, err := s.ticketRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("ticket", id)
		}
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	if upd.Quantity != nil {
		s.notifyQuantityChanged(t)
	}
	return t, nil
}

func (s *ticketService) SetQuantity(ctx context.Context, id string, quantity int) (*domain.Ticket, error) {
	if quantity < 0 {
		return nil, domain.NewInvalidInput("Quantity cannot be negative")
	}
	t, err := s.ticketRepo.SetQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("ticket", id)
		}
		return nil, fmt.Errorf("set ticket quantity: %w", err)
	}
	s.notifyQuantityChanged(t)
	return t, nil
}

// Decrease subtracts amount atomically. The sufficiency guard runs inside
// the UPDATE statement, so quantity can never go negative even under
// concurrent decreases; a failed guard leaves the row untouched.
func (s *ticketService) Decrease(ctx context.Context, id string, amount int) (*domain.Ticket, error) {
	if amount <= 0 {
		return nil, domain.NewInvalidInput("Amount must be greater than 0")
	}
	t, ok, err := s.ticketRepo.DecrementQuantity(ctx, id, amount)
	if err != nil {
		return nil, fmt.Errorf("decrement ticket quantity: %w", err)
	}
	if !ok {
		// The guard failed: either the ticket is missing or the remaining
		// quantity is insufficient.
		current, err := s.ticketRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewNotFound("ticket", id)
			}
			return nil, fmt.Errorf("get ticket: %w", err)
		}
		return nil, domain.NewInvalidInput(fmt.Sprintf(
			"Not enough tickets available. Only %d tickets remaining", current.Quantity))
	}
	s.notifyQuantityChanged(t)
	return t, nil
}

// Increase adds amount atomically. There is no upper bound.
func (s *ticketService) Increase(ctx context.Context, id string, amount int) (*domain.Ticket, error) {
	if amount <= 0 {
		return nil, domain.NewInvalidInput("Amount must be greater than 0")
	}
	t, err := s.ticketRepo.IncrementQuantity(ctx, id, amount)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("ticket", id)
		}
		return nil, fmt.Errorf("increment ticket quantity: %w", err)
	}
	s.notifyQuantityChanged(t)
	return t, nil
}

func (s *ticketService) Delete(ctx context.Context, id string) error {
	if err := s.ticketRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("ticket", id)
		}
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

func (s *ticketService) notifyQuantityChanged(t *domain.Ticket) {
	if s.publisher == nil {
		return
	}
	go func() {
		msg := domain.TicketQuantityMessage{
			TicketID: t.ID,
			EventID:  t.EventID,
			Quantity: t.Quantity,
		}
		if err := s.publisher.Publish(context.Background(), domain.TopicTicketQuantityChanged, msg); err != nil {
			s.logger.Error("publish ticket quantity changed", "ticket_id", t.ID, "err", err)
		}
	}()
}
