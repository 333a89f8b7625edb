package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Controllers branch on these with
// errors.Is to pick the HTTP status.
var (
	// ErrNotFound is returned when a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a (user, event) pair already
	// has a registration. Maps to HTTP 409.
	ErrAlreadyRegistered = errors.New("User is already registered for this event")

	// ErrInvalidInput is returned for validation failures such as negative
	// prices, negative quantities, or insufficient ticket inventory.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError names the entity and id that failed to resolve.
// errors.Is(err, ErrNotFound) matches it.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFound returns a NotFoundError for the given entity and id.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidInputError carries a caller-facing validation message.
// errors.Is(err, ErrInvalidInput) matches it.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInvalidInput returns an InvalidInputError with the given message.
func NewInvalidInput(message string) error {
	return &InvalidInputError{Message: message}
}
