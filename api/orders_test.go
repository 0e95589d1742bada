package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfare/airline-service/internal/domain"
)

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) Create(ctx context.Context, userID int64, specs []domain.TicketSpec) (*domain.Order, error) {
	args := m.Called(ctx, userID, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func newOrderTestRouter(service *MockOrderUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(testSecret))
	handler := NewOrderHandler(service, Paginator{PageSize: 10, MaxPageSize: 100})
	handler.Register(router.Group("/api/orders"))
	return router
}

func TestOrderHandler_create(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderTestRouter(mockService)

	specs := []domain.TicketSpec{{FlightID: 5, Row: 1, Seat: 2}}
	order := &domain.Order{
		ID:        9,
		UserID:    7,
		CreatedAt: time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC),
		Tickets:   []domain.Ticket{{ID: 11, FlightID: 5, Row: 1, Seat: 2}},
	}
	mockService.On("Create", mock.Anything, int64(7), specs).Return(order, nil)

	body, _ := json.Marshal(createOrderRequest{Tickets: []ticketSpecRequest{{Flight: 5, Row: 1, Seat: 2}}})
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response orderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(9), response.ID)
	assert.Len(t, response.Tickets, 1)
	assert.Equal(t, 2, response.Tickets[0].Seat)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_create_Unauthenticated(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderTestRouter(mockService)

	body, _ := json.Marshal(createOrderRequest{Tickets: []ticketSpecRequest{{Flight: 5, Row: 1, Seat: 2}}})
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestOrderHandler_create_SeatConflict(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderTestRouter(mockService)

	conflict := &domain.SeatConflictError{Index: 0, FlightID: 5, Row: 1, Seat: 2}
	mockService.On("Create", mock.Anything, int64(7), mock.Anything).Return(nil, conflict)

	body, _ := json.Marshal(createOrderRequest{Tickets: []ticketSpecRequest{{Flight: 5, Row: 1, Seat: 2}}})
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["tickets"], "seat is already taken")
}

func TestOrderHandler_create_ValidationError(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderTestRouter(mockService)

	ve := &domain.ValidationError{Field: "row", Message: "row number must be in available range: (1, rows): (1, 6)"}
	mockService.On("Create", mock.Anything, int64(7), mock.Anything).Return(nil, ve)

	body, _ := json.Marshal(createOrderRequest{Tickets: []ticketSpecRequest{{Flight: 5, Row: 7, Seat: 2}}})
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"row": "row number must be in available range: (1, rows): (1, 6)"}`, w.Body.String())
}

func TestOrderHandler_list(t *testing.T) {
	mockService := &MockOrderUseCase{}
	router := newOrderTestRouter(mockService)

	orders := []domain.Order{
		{
			ID:        3,
			UserID:    7,
			CreatedAt: time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC),
			Tickets: []domain.Ticket{
				{
					ID: 1, Row: 2, Seat: 3,
					Flight: &domain.FlightListItem{ID: 5, Route: "A - B", Airplane: "Jet", AirplaneNumSeats: 30, TicketsAvailable: 29},
				},
			},
		},
	}
	mockService.On("ListByUser", mock.Anything, int64(7), 10, 0).Return(orders, 1, nil)

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, 7, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count   int             `json:"count"`
		Results []orderResponse `json:"results"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Len(t, response.Results, 1)
	assert.NotNil(t, response.Results[0].Tickets[0].Flight)
	assert.Equal(t, "A - B", response.Results[0].Tickets[0].Flight.Route)
	mockService.AssertExpectations(t)
}
