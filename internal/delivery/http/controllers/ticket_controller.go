package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
	"eventticketing/internal/pkg/metrics"
)

type TicketController struct {
	Logger  *slog.Logger
	Service domain.TicketService
}

func NewTicketController(logger *slog.Logger, svc domain.TicketService) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
	}
}

// TicketSuccessResponse is the success envelope for single-ticket responses.
type TicketSuccessResponse struct {
	Data  *domain.Ticket    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TicketListSuccessResponse is the success envelope for ticket list responses.
type TicketListSuccessResponse struct {
	Data  []*domain.Ticket  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateTicketRequest is the request body for POST /tickets.
type CreateTicketRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	EventID  string  `json:"event_id"`
}

// Validate implements helpers.Validator. Non-negativity of price and
// quantity is enforced by the service so the error messages stay uniform
// across transports.
func (r *CreateTicketRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	return errs
}

// Create godoc
// @Summary Create a ticket tier
// @Description Creates a priced allocation tier for an event with an initial quantity.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateTicketRequest true "Ticket details"
// @Success 201 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (negative price or quantity)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets [post]
func (c *TicketController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.Create(r.Context(), domain.CreateTicketInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		EventID:  req.EventID,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// List godoc
// @Summary List tickets
// @Description Returns a paginated list of all tickets.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data is a PaginatedResponse of tickets"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets [get]
func (c *TicketController) List(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	tickets, total, err := c.Service.List(r.Context(), p)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedResponse{
		Items:      tickets,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// GetByID godoc
// @Summary Get a ticket by id
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id} [get]
func (c *TicketController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ticket, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// ListAvailable godoc
// @Summary List tickets with remaining quantity
// @Description Returns tickets whose quantity is strictly greater than zero.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TicketListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/available [get]
func (c *TicketController) ListAvailable(w http.ResponseWriter, r *http.Request) {
	tickets, err := c.Service.ListAvailable(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// ListByEvent godoc
// @Summary List tickets of an event
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.TicketListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/event/{eventID} [get]
func (c *TicketController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	tickets, err := c.Service.ListByEventID(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// ListAvailableByEvent godoc
// @Summary List available tickets of an event
// @Description Returns the event's tickets whose quantity is strictly greater than zero.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.TicketListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/event/{eventID}/available [get]
func (c *TicketController) ListAvailableByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	tickets, err := c.Service.ListAvailableByEventID(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// UpdateTicketRequest is the request body for PATCH /tickets/{id}.
// Absent fields are left untouched.
type UpdateTicketRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

// Update godoc
// @Summary Partially update a ticket
// @Description Updates the supplied fields; price and quantity are re-validated for non-negativity.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Param body body controllers.UpdateTicketRequest true "Fields to update"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id} [patch]
func (c *TicketController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.Update(r.Context(), id, domain.TicketUpdate{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// SetQuantityRequest is the request body for PATCH /tickets/{id}/quantity.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// Validate implements helpers.Validator.
func (r *SetQuantityRequest) Validate() []string {
	if r.Quantity == nil {
		return []string{"quantity is required"}
	}
	return nil
}

// SetQuantity godoc
// @Summary Set a ticket's quantity to an absolute value
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Param body body controllers.SetQuantityRequest true "New quantity"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (negative quantity)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id}/quantity [patch]
func (c *TicketController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.SetQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		metrics.InventoryAdjustmentsTotal.WithLabelValues("set", outcomeLabel(err)).Inc()
		writeServiceError(c.Logger, w, r, err)
		return
	}
	metrics.InventoryAdjustmentsTotal.WithLabelValues("set", "ok").Inc()
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// AdjustQuantityRequest is the request body for PATCH /tickets/{id}/decrease and /increase.
type AdjustQuantityRequest struct {
	Amount *int `json:"amount"`
}

// Validate implements helpers.Validator.
func (r *AdjustQuantityRequest) Validate() []string {
	if r.Amount == nil {
		return []string{"amount is required"}
	}
	return nil
}

// Decrease godoc
// @Summary Decrease a ticket's quantity
// @Description Atomically subtracts amount from the remaining quantity. Rejects the adjustment when fewer tickets remain than requested.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Param body body controllers.AdjustQuantityRequest true "Amount to subtract"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (non-positive amount or insufficient quantity)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id}/decrease [patch]
func (c *TicketController) Decrease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req AdjustQuantityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.Decrease(r.Context(), id, *req.Amount)
	if err != nil {
		metrics.InventoryAdjustmentsTotal.WithLabelValues("decrease", outcomeLabel(err)).Inc()
		writeServiceError(c.Logger, w, r, err)
		return
	}
	metrics.InventoryAdjustmentsTotal.WithLabelValues("decrease", "ok").Inc()
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// Increase godoc
// @Summary Increase a ticket's quantity
// @Description Atomically adds amount to the remaining quantity. No upper bound.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Param body body controllers.AdjustQuantityRequest true "Amount to add"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (non-positive amount)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id}/increase [patch]
func (c *TicketController) Increase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req AdjustQuantityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.Increase(r.Context(), id, *req.Amount)
	if err != nil {
		metrics.InventoryAdjustmentsTotal.WithLabelValues("increase", outcomeLabel(err)).Inc()
		writeServiceError(c.Logger, w, r, err)
		return
	}
	metrics.InventoryAdjustmentsTotal.WithLabelValues("increase", "ok").Inc()
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// Delete godoc
// @Summary Delete a ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/{id} [delete]
func (c *TicketController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": id})
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "rejected"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
