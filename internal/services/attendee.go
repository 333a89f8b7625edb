package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"eventticketing/internal/domain"
)

type attendeeService struct {
	attendeeRepo domain.AttendeeRepository
	userRepo     domain.UserRepository
	eventRepo    domain.EventRepository
	emailSvc     domain.EmailService
	publisher    domain.Publisher
	logger       *slog.Logger
}

// NewAttendeeService creates an AttendeeService with the given collaborators.
// emailSvc and publisher may be nil; side effects are skipped when absent.
func NewAttendeeService(
	attendeeRepo domain.AttendeeRepository,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	emailSvc domain.EmailService,
	publisher domain.Publisher,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		attendeeRepo: attendeeRepo,
		userRepo:     userRepo,
		eventRepo:    eventRepo,
		emailSvc:     emailSvc,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *attendeeService) Create(ctx context.Context, in domain.CreateAttendeeInput) (*domain.Attendee, error) {
	status := domain.StatusRegistered
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, domain.NewInvalidInput(fmt.Sprintf("Invalid status: %s", *in.Status))
		}
		status = *in.Status
	}

	// Resolve the referenced user and event concurrently.
	var user *domain.User
	var event *domain.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.userRepo.GetByID(gctx, in.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFound("user", in.UserID)
			}
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		e, err := s.eventRepo.GetByID(gctx, in.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewNotFound("event", in.EventID)
			}
			return fmt.Errorf("get event: %w", err)
		}
		event = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	attendee := domain.NewAttendee(in.UserID, in.EventID, status, now, now)
	attendee.Notes = in.Notes
	if in.IsPaid != nil {
		attendee.IsPaid = *in.IsPaid
	}
	attendee.PaymentAmount = in.PaymentAmount

	// A single conditional insert: the unique (user_id, event_id) constraint
	// guarantees at most one registration per pair even when two creates
	// race past any earlier check.
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create attendee: %w", err)
	}

	s.notifyRegistered(attendee, user, event)
	return attendee, nil
}

// notifyRegistered sends the confirmation email and publishes the
// registration message. Both are best effort and never fail the request.
func (s *attendeeService) notifyRegistered(a *domain.Attendee, user *domain.User, event *domain.Event) {
	if s.emailSvc != nil {
		go func() {
			data := &domain.RegistrationConfirmationData{
				Email:     user.Email,
				Name:      user.Name,
				EventName: event.Name,
			}
			if err := s.emailSvc.SendRegistrationConfirmation(context.Background(), data); err != nil {
				s.logger.Error("send registration confirmation", "attendee_id", a.ID, "err", err)
			}
		}()
	}
	if s.publisher != nil {
		go func() {
			msg := domain.RegistrationMessage{
				AttendeeID: a.ID,
				UserID:     a.UserID,
				EventID:    a.EventID,
				Status:     string(a.Status),
			}
			if err := s.publisher.Publish(context.Background(), domain.TopicRegistrationCreated, msg); err != nil {
				s.logger.Error("publish registration created", "attendee_id", a.ID, "err", err)
			}
		}()
	}
}

func (s *attendeeService) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	a, err := s.attendeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("attendee", id)
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

func (s *attendeeService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Attendee, int, error) {
	attendees, total, err := s.attendeeRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, total, nil
}

// ListByEventID verifies the event exists before listing; the attendee list
// itself may legitimately be empty.
func (s *attendeeService) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("event", eventID)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	attendees, err := s.attendeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees by event: %w", err)
	}
	return attendees, nil
}

func (s *attendeeService) ListByUserID(ctx context.Context, userID string) ([]*domain.Attendee, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	attendees, err := s.attendeeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attendees by user: %w", err)
	}
	return attendees, nil
}

// Update applies a partial merge of the supplied fields. No cross-field
// validation: setting is_paid without payment_amount is permitted.
func (s *attendeeService) Update(ctx context.Context, id string, upd domain.AttendeeUpdate) (*domain.Attendee, error) {
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, domain.NewInvalidInput(fmt.Sprintf("Invalid status: %s", *upd.Status))
	}
	a, err := s.attendeeRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("attendee", id)
		}
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	return a, nil
}

// UpdateStatus overwrites the status unconditionally. Any of the five
// values may be set from any current value; no transition graph is enforced.
func (s *attendeeService) UpdateStatus(ctx context.Context, id string, status domain.AttendeeStatus) (*domain.Attendee, error) {
	if !status.IsValid() {
		return nil, domain.NewInvalidInput(fmt.Sprintf("Invalid status: %s", status))
	}
	return s.Update(ctx, id, domain.AttendeeUpdate{Status: &status})
}

// MarkAsPaid sets is_paid and fully overwrites the stored amount. Repeated
// identical calls are idempotent.
func (s *attendeeService) MarkAsPaid(ctx context.Context, id string, amount float64) (*domain.Attendee, error) {
	paid := true
	return s.Update(ctx, id, domain.AttendeeUpdate{IsPaid: &paid, PaymentAmount: &amount})
}

func (s *attendeeService) Delete(ctx context.Context, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.attendeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("attendee", id)
		}
		return fmt.Errorf("delete attendee: %w", err)
	}
	if s.publisher != nil {
		go func() {
			msg := domain.RegistrationMessage{
				AttendeeID: a.ID,
				UserID:     a.UserID,
				EventID:    a.EventID,
				Status:     string(a.Status),
			}
			if err := s.publisher.Publish(context.Background(), domain.TopicRegistrationDeleted, msg); err != nil {
				s.logger.Error("publish registration deleted", "attendee_id", a.ID, "err", err)
			}
		}()
	}
	return nil
}

// GetEventStats counts attendees of the event by status. REGISTERED
// attendees appear in total only; no revenue or paid/unpaid aggregation.
func (s *attendeeService) GetEventStats(ctx context.Context, eventID string) (*domain.AttendanceStats, error) {
	attendees, err := s.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	stats := &domain.AttendanceStats{Total: len(attendees)}
	for _, a := range attendees {
		switch a.Status {
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusAttended:
			stats.Attended++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusNoShow:
			stats.NoShow++
		}
	}
	return stats, nil
}
