package domain

import "context"

// Routing keys for published domain messages.
const (
	TopicRegistrationCreated = "registration.created"
	TopicRegistrationDeleted = "registration.deleted"
	TopicTicketQuantityChanged = "ticket.quantity_changed"
)

// RegistrationMessage is published when a registration is created or deleted.
type RegistrationMessage struct {
	AttendeeID string `json:"attendee_id"`
	UserID     string `json:"user_id"`
	EventID    string `json:"event_id"`
	Status     string `json:"status"`
}

// TicketQuantityMessage is published after a ticket quantity mutation.
type TicketQuantityMessage struct {
	TicketID string `json:"ticket_id"`
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// Publisher sends domain messages to interested consumers. Publishing is
// best effort: services log failures and never fail the request over them.
type Publisher interface {
	Publish(ctx context.Context, topic string, body any) error
}
