package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

const testTicketID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

type mockTicketService struct {
	ticket  *domain.Ticket
	tickets []*domain.Ticket
	err     error
}

func (m *mockTicketService) Create(ctx context.Context, in domain.CreateTicketInput) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Ticket, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.tickets, len(m.tickets), nil
}

func (m *mockTicketService) ListByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tickets, nil
}

func (m *mockTicketService) ListAvailable(ctx context.Context) ([]*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tickets, nil
}

func (m *mockTicketService) ListAvailableByEventID(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tickets, nil
}

func (m *mockTicketService) Update(ctx context.Context, id string, upd domain.TicketUpdate) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) SetQuantity(ctx context.Context, id string, quantity int) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) Decrease(ctx context.Context, id string, amount int) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) Increase(ctx context.Context, id string, amount int) (*domain.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ticket, nil
}

func (m *mockTicketService) Delete(ctx context.Context, id string) error {
	return m.err
}

func TestTicketController_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockTicketService{
			ticket: &domain.Ticket{ID: testTicketID, Name: "General Admission", Price: 25, Quantity: 100, EventID: testEventID},
		}
		ctrl := NewTicketController(discardLogger(), svc)

		body := `{"name":"General Admission","price":25,"quantity":100,"event_id":"` + testEventID + `"}`
		req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
	})

	t.Run("negative price rejected by service", func(t *testing.T) {
		svc := &mockTicketService{err: domain.NewInvalidInput("Price cannot be negative")}
		ctrl := NewTicketController(discardLogger(), svc)

		body := `{"name":"Bad","price":-1,"quantity":10,"event_id":"` + testEventID + `"}`
		req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error == nil || resp.Error.Message != "Price cannot be negative" {
			t.Fatalf("expected exact validation message, got %v", resp.Error)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		ctrl := NewTicketController(discardLogger(), &mockTicketService{})

		body := `{"price":25,"quantity":100,"event_id":"` + testEventID + `"}`
		req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(body))
		w := httptest.NewRecorder()

		ctrl.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestTicketController_Decrease(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockTicketService{
			ticket: &domain.Ticket{ID: testTicketID, Name: "GA", Quantity: 70, EventID: testEventID},
		}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/decrease", strings.NewReader(`{"amount":30}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Decrease(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}
		var resp struct {
			Data  *domain.Ticket    `json:"data"`
			Error *helpers.APIError `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data == nil || resp.Data.Quantity != 70 {
			t.Fatalf("expected remaining quantity 70, got %+v", resp.Data)
		}
	})

	t.Run("insufficient quantity", func(t *testing.T) {
		svc := &mockTicketService{
			err: domain.NewInvalidInput("Not enough tickets available. Only 70 tickets remaining"),
		}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/decrease", strings.NewReader(`{"amount":100}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Decrease(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error == nil || resp.Error.Message != "Not enough tickets available. Only 70 tickets remaining" {
			t.Fatalf("expected exact insufficiency message, got %v", resp.Error)
		}
	})

	t.Run("missing amount", func(t *testing.T) {
		ctrl := NewTicketController(discardLogger(), &mockTicketService{})

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/decrease", strings.NewReader(`{}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Decrease(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("non-positive amount rejected by service", func(t *testing.T) {
		svc := &mockTicketService{err: domain.NewInvalidInput("Amount must be greater than 0")}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/decrease", strings.NewReader(`{"amount":0}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Decrease(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error == nil || resp.Error.Message != "Amount must be greater than 0" {
			t.Fatalf("expected exact validation message, got %v", resp.Error)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockTicketService{err: domain.NewNotFound("ticket", testTicketID)}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/decrease", strings.NewReader(`{"amount":5}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Decrease(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestTicketController_SetQuantity(t *testing.T) {
	t.Run("success with zero", func(t *testing.T) {
		svc := &mockTicketService{
			ticket: &domain.Ticket{ID: testTicketID, Name: "GA", Quantity: 0, EventID: testEventID},
		}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/quantity", strings.NewReader(`{"quantity":0}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.SetQuantity(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("missing quantity", func(t *testing.T) {
		ctrl := NewTicketController(discardLogger(), &mockTicketService{})

		req := httptest.NewRequest(http.MethodPatch, "/tickets/"+testTicketID+"/quantity", strings.NewReader(`{}`))
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.SetQuantity(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestTicketController_Delete(t *testing.T) {
	t.Run("success returns 200 with id", func(t *testing.T) {
		ctrl := NewTicketController(discardLogger(), &mockTicketService{})

		req := httptest.NewRequest(http.MethodDelete, "/tickets/"+testTicketID, nil)
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Delete(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp struct {
			Data  map[string]string `json:"data"`
			Error *helpers.APIError `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data["id"] != testTicketID {
			t.Fatalf("expected deleted id in payload, got %v", resp.Data)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockTicketService{err: domain.NewNotFound("ticket", testTicketID)}
		ctrl := NewTicketController(discardLogger(), svc)

		req := httptest.NewRequest(http.MethodDelete, "/tickets/"+testTicketID, nil)
		req.SetPathValue("id", testTicketID)
		w := httptest.NewRecorder()

		ctrl.Delete(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestTicketController_List_Paginated(t *testing.T) {
	svc := &mockTicketService{
		tickets: []*domain.Ticket{
			{ID: testTicketID, Name: "GA", Quantity: 100, EventID: testEventID},
		},
	}
	ctrl := NewTicketController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/tickets?page=1&page_size=10", nil)
	w := httptest.NewRecorder()

	ctrl.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data struct {
			Items      []*domain.Ticket       `json:"items"`
			Pagination helpers.PaginationMeta `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Data.Items))
	}
	if resp.Data.Pagination.Page != 1 || resp.Data.Pagination.PageSize != 10 {
		t.Fatalf("unexpected pagination meta: %+v", resp.Data.Pagination)
	}
}
