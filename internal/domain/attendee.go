package domain

import (
	"context"
	"time"
)

// AttendeeStatus is the lifecycle status of a registration. There is no
// enforced transition graph: any status may be set from any other.
type AttendeeStatus string

const (
	StatusRegistered AttendeeStatus = "REGISTERED"
	StatusConfirmed  AttendeeStatus = "CONFIRMED"
	StatusCancelled  AttendeeStatus = "CANCELLED"
	StatusAttended   AttendeeStatus = "ATTENDED"
	StatusNoShow     AttendeeStatus = "NO_SHOW"
)

// IsValid reports whether s is one of the five known statuses.
func (s AttendeeStatus) IsValid() bool {
	switch s {
	case StatusRegistered, StatusConfirmed, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

// Attendee represents one user's registration for one event.
// At most one Attendee exists per (user_id, event_id) pair; the attendees
// table enforces this with a unique constraint.
// swagger:model Attendee
type Attendee struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	EventID       string         `json:"event_id"`
	Status        AttendeeStatus `json:"status"`
	Notes         *string        `json:"notes,omitempty"`
	IsPaid        bool           `json:"is_paid"`
	PaymentAmount *float64       `json:"payment_amount,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewAttendee creates a new Attendee. ID is set by the repository on create.
func NewAttendee(userID, eventID string, status AttendeeStatus, createdAt, updatedAt time.Time) *Attendee {
	return &Attendee{
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// AttendanceStats holds per-event attendance counters. Total counts every
// attendee regardless of status.
// swagger:model AttendanceStats
type AttendanceStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Attended  int `json:"attended"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
}

// AttendeeUpdate carries the optional fields of a partial attendee update.
// Nil fields are left untouched.
type AttendeeUpdate struct {
	Status        *AttendeeStatus
	Notes         *string
	IsPaid        *bool
	PaymentAmount *float64
}

// AttendeeRepository defines storage operations for attendee registrations.
// Create relies on the unique (user_id, event_id) constraint and returns
// ErrAlreadyRegistered on violation, so duplicate prevention holds under
// concurrent inserts.
type AttendeeRepository interface {
	Create(ctx context.Context, a *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	List(ctx context.Context, p PaginationParams) ([]*Attendee, int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
	ListByUserID(ctx context.Context, userID string) ([]*Attendee, error)
	Update(ctx context.Context, id string, upd AttendeeUpdate) (*Attendee, error)
	Delete(ctx context.Context, id string) error
}

// CreateAttendeeInput is the input for AttendeeService.Create.
type CreateAttendeeInput struct {
	UserID        string
	EventID       string
	Status        *AttendeeStatus
	Notes         *string
	IsPaid        *bool
	PaymentAmount *float64
}

// AttendeeService coordinates registrations: referenced user and event must
// exist, at most one registration per (user, event) pair, status lifecycle,
// payment flags, and per-event attendance aggregates.
type AttendeeService interface {
	Create(ctx context.Context, in CreateAttendeeInput) (*Attendee, error)
	GetByID(ctx context.Context, id string) (*Attendee, error)
	List(ctx context.Context, p PaginationParams) ([]*Attendee, int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
	ListByUserID(ctx context.Context, userID string) ([]*Attendee, error)
	Update(ctx context.Context, id string, upd AttendeeUpdate) (*Attendee, error)
	UpdateStatus(ctx context.Context, id string, status AttendeeStatus) (*Attendee, error)
	MarkAsPaid(ctx context.Context, id string, amount float64) (*Attendee, error)
	Delete(ctx context.Context, id string) error
	GetEventStats(ctx context.Context, eventID string) (*AttendanceStats, error)
}
