package domain

import (
	"context"
	"time"
)

// Event is a catalog record resolved when validating registrations and
// scoped lookups. The catalog is read-only from this service's perspective.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventRepository resolves event identifiers against the catalog.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}
