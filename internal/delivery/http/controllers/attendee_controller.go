package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
	"eventticketing/internal/pkg/metrics"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// AttendeeSuccessResponse is the success envelope for single-attendee responses.
type AttendeeSuccessResponse struct {
	Data  *domain.Attendee  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AttendeeListSuccessResponse is the success envelope for attendee list responses.
type AttendeeListSuccessResponse struct {
	Data  []*domain.Attendee `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CreateAttendeeRequest is the request body for POST /attendees.
type CreateAttendeeRequest struct {
	UserID        string   `json:"user_id"`
	EventID       string   `json:"event_id"`
	Status        *string  `json:"status,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	IsPaid        *bool    `json:"is_paid,omitempty"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateAttendeeRequest) Validate() []string {
	var errs []string
	if r.UserID == "" {
		errs = append(errs, "user_id is required")
	} else if !uuidRegex.MatchString(r.UserID) {
		errs = append(errs, "user_id must be a UUID")
	}
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	if r.Status != nil && !domain.AttendeeStatus(*r.Status).IsValid() {
		errs = append(errs, "status must be one of REGISTERED, CONFIRMED, CANCELLED, ATTENDED, NO_SHOW")
	}
	if r.PaymentAmount != nil && *r.PaymentAmount < 0 {
		errs = append(errs, "payment_amount cannot be negative")
	}
	return errs
}

func (r *CreateAttendeeRequest) toInput() domain.CreateAttendeeInput {
	in := domain.CreateAttendeeInput{
		UserID:        r.UserID,
		EventID:       r.EventID,
		Notes:         r.Notes,
		IsPaid:        r.IsPaid,
		PaymentAmount: r.PaymentAmount,
	}
	if r.Status != nil {
		status := domain.AttendeeStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// Create godoc
// @Summary Register a user for an event (admin)
// @Description Creates a registration for the given user and event. At most one registration may exist per (user, event) pair.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateAttendeeRequest true "Registration details"
// @Success 201 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown user or event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees [post]
func (c *AttendeeController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.create(w, r, req.toInput())
}

// RegisterSelfRequest is the request body for POST /attendees/register.
type RegisterSelfRequest struct {
	EventID       string   `json:"event_id"`
	Notes         *string  `json:"notes,omitempty"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
}

// Validate implements helpers.Validator.
func (r *RegisterSelfRequest) Validate() []string {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	if r.PaymentAmount != nil && *r.PaymentAmount < 0 {
		errs = append(errs, "payment_amount cannot be negative")
	}
	return errs
}

// RegisterSelf godoc
// @Summary Register the current user for an event
// @Description Registers the authenticated user as an attendee for the specified event.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RegisterSelfRequest true "Event to register for"
// @Success 201 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown user or event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/register [post]
func (c *AttendeeController) RegisterSelf(w http.ResponseWriter, r *http.Request) {
	var req RegisterSelfRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.create(w, r, domain.CreateAttendeeInput{
		UserID:        userID,
		EventID:       req.EventID,
		Notes:         req.Notes,
		PaymentAmount: req.PaymentAmount,
	})
}

func (c *AttendeeController) create(w http.ResponseWriter, r *http.Request, in domain.CreateAttendeeInput) {
	attendee, err := c.Service.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrNotFound):
			metrics.RegistrationsTotal.WithLabelValues("not_found").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		writeServiceError(c.Logger, w, r, err)
		return
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	helpers.WriteJSONSuccess(w, http.StatusCreated, attendee)
}

// List godoc
// @Summary List attendees
// @Description Returns a paginated list of all attendees.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data is a PaginatedResponse of attendees"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees [get]
func (c *AttendeeController) List(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	attendees, total, err := c.Service.List(r.Context(), p)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedResponse{
		Items:      attendees,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// GetByID godoc
// @Summary Get an attendee by id
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Success 200 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{id} [get]
func (c *AttendeeController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	attendee, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// ListByEvent godoc
// @Summary List attendees of an event
// @Description Returns all attendees registered for the event. Fails 404 when the event does not exist; an empty list is a valid result.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AttendeeListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/event/{eventID} [get]
func (c *AttendeeController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	attendees, err := c.Service.ListByEventID(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendees)
}

// ListByUser godoc
// @Summary List registrations of a user
// @Description Returns all registrations made by the user. Fails 404 when the user does not exist; an empty list is a valid result.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.AttendeeListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/user/{userID} [get]
func (c *AttendeeController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	attendees, err := c.Service.ListByUserID(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendees)
}

// UpdateAttendeeRequest is the request body for PUT /attendees/{id}.
// Absent fields are left untouched; no cross-field validation is performed.
type UpdateAttendeeRequest struct {
	Status        *string  `json:"status,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	IsPaid        *bool    `json:"is_paid,omitempty"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
}

// Validate implements helpers.Validator.
func (r *UpdateAttendeeRequest) Validate() []string {
	var errs []string
	if r.Status != nil && !domain.AttendeeStatus(*r.Status).IsValid() {
		errs = append(errs, "status must be one of REGISTERED, CONFIRMED, CANCELLED, ATTENDED, NO_SHOW")
	}
	if r.PaymentAmount != nil && *r.PaymentAmount < 0 {
		errs = append(errs, "payment_amount cannot be negative")
	}
	return errs
}

// Update godoc
// @Summary Partially update an attendee
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Param body body controllers.UpdateAttendeeRequest true "Fields to update"
// @Success 200 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{id} [put]
func (c *AttendeeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateAttendeeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.AttendeeUpdate{
		Notes:         req.Notes,
		IsPaid:        req.IsPaid,
		PaymentAmount: req.PaymentAmount,
	}
	if req.Status != nil {
		status := domain.AttendeeStatus(*req.Status)
		upd.Status = &status
	}
	attendee, err := c.Service.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// UpdateStatusRequest is the request body for PUT /attendees/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (r *UpdateStatusRequest) Validate() []string {
	if r.Status == "" {
		return []string{"status is required"}
	}
	if !domain.AttendeeStatus(r.Status).IsValid() {
		return []string{"status must be one of REGISTERED, CONFIRMED, CANCELLED, ATTENDED, NO_SHOW"}
	}
	return nil
}

// UpdateStatus godoc
// @Summary Set an attendee's status
// @Description Overwrites the status unconditionally; any value may be set from any current value.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Param body body controllers.UpdateStatusRequest true "New status"
// @Success 200 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{id}/status [put]
func (c *AttendeeController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.UpdateStatus(r.Context(), id, domain.AttendeeStatus(req.Status))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// RecordPaymentRequest is the request body for PUT /attendees/{id}/payment.
type RecordPaymentRequest struct {
	Amount *float64 `json:"amount"`
}

// Validate implements helpers.Validator.
func (r *RecordPaymentRequest) Validate() []string {
	if r.Amount == nil {
		return []string{"amount is required"}
	}
	if *r.Amount < 0 {
		return []string{"amount cannot be negative"}
	}
	return nil
}

// RecordPayment godoc
// @Summary Record a payment for an attendee
// @Description Sets is_paid and overwrites the stored payment amount. Repeated identical calls are idempotent.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Param body body controllers.RecordPaymentRequest true "Payment amount"
// @Success 200 {object} controllers.AttendeeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{id}/payment [put]
func (c *AttendeeController) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.MarkAsPaid(r.Context(), id, *req.Amount)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}

// Delete godoc
// @Summary Delete a registration
// @Description Removes the registration. Has no effect on ticket inventory.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendee ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/{id} [delete]
func (c *AttendeeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatsSuccessResponse is the success envelope for GET /attendees/event/{eventID}/stats.
type StatsSuccessResponse struct {
	Data  *domain.AttendanceStats `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EventStats godoc
// @Summary Get attendance counters for an event
// @Description Returns total attendees plus confirmed/attended/cancelled/no_show counts.
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.StatsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendees/event/{eventID}/stats [get]
func (c *AttendeeController) EventStats(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	stats, err := c.Service.GetEventStats(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
