package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/kafka"
	"github.com/skyfare/airline-service/pkg/logger"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context, filter domain.FlightFilter, limit, offset int) ([]domain.FlightListItem, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]domain.FlightListItem), args.Int(1), args.Error(2)
}

func (m *MockFlightRepository) GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightDetail), args.Error(1)
}

func (m *MockFlightRepository) GetLayout(ctx context.Context, flightID int64) (*domain.SeatLayout, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeatLayout), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockSeatCache struct {
	mock.Mock
}

func (m *MockSeatCache) AcquireSeatHold(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, flightID, row, seat, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeatCache) ReleaseSeatHold(ctx context.Context, flightID int64, row, seat int) error {
	args := m.Called(ctx, flightID, row, seat)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type orderMocks struct {
	orders   *MockOrderRepository
	flights  *MockFlightRepository
	users    *MockUserRepository
	cache    *MockSeatCache
	producer *MockProducer
}

func newTestOrderService(opts ...OrderServiceOption) (*OrderService, *orderMocks) {
	m := &orderMocks{
		orders:   &MockOrderRepository{},
		flights:  &MockFlightRepository{},
		users:    &MockUserRepository{},
		cache:    &MockSeatCache{},
		producer: &MockProducer{},
	}
	service := NewOrderService(
		m.orders, m.flights, m.users, m.cache, m.producer,
		"orders", 30*time.Second, logger.NewNop(), opts...,
	)
	return service, m
}

func TestOrderService_Create_EmptyRejected(t *testing.T) {
	service, m := newTestOrderService()

	order, err := service.Create(context.Background(), 1, nil)

	assert.Nil(t, order)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "tickets", ve.Field)
	m.orders.AssertNotCalled(t, "Create")
	m.cache.AssertNotCalled(t, "AcquireSeatHold")
}

func TestOrderService_Create_SeatOutOfRange(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 7, Seat: 3},
	})

	assert.Nil(t, order)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "row", ve.Field)
	assert.Equal(t, "row number must be in available range: (1, rows): (1, 6)", ve.Message)
	m.orders.AssertNotCalled(t, "Create")
	m.cache.AssertNotCalled(t, "AcquireSeatHold")
	m.flights.AssertExpectations(t)
}

func TestOrderService_Create_UnknownFlight(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	m.flights.On("GetLayout", ctx, int64(42)).Return(nil, domain.ErrNotFound).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 42, Row: 1, Seat: 1},
	})

	assert.Nil(t, order)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "flight", ve.Field)
	m.orders.AssertNotCalled(t, "Create")
}

func TestOrderService_Create_HoldConflict(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 1, 1, 30*time.Second).Return(true, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 1, 2, 30*time.Second).Return(false, nil).Once()
	m.cache.On("ReleaseSeatHold", ctx, int64(5), 1, 1).Return(nil).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 1, Seat: 1},
		{FlightID: 5, Row: 1, Seat: 2},
	})

	assert.Nil(t, order)
	var conflict *domain.SeatConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.Index)
	assert.Equal(t, int64(5), conflict.FlightID)
	assert.True(t, errors.Is(err, domain.ErrSeatTaken))
	m.orders.AssertNotCalled(t, "Create")
	m.cache.AssertExpectations(t)
}

func TestOrderService_Create_DuplicateSeatInOrder(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	// the second hold on the same seat fails, same as a concurrent taker
	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 2, 5, 30*time.Second).Return(true, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 2, 5, 30*time.Second).Return(false, nil).Once()
	m.cache.On("ReleaseSeatHold", ctx, int64(5), 2, 5).Return(nil).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 2, Seat: 5},
		{FlightID: 5, Row: 2, Seat: 5},
	})

	assert.Nil(t, order)
	var conflict *domain.SeatConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.Index)
	assert.True(t, errors.Is(err, domain.ErrSeatTaken))
	m.orders.AssertNotCalled(t, "Create")
	m.cache.AssertExpectations(t)
}

func TestOrderService_Create_DuplicateSeatWithoutCache(t *testing.T) {
	_, m := newTestOrderService()
	service := NewOrderService(m.orders, m.flights, m.users, nil, nil, "", 0, logger.NewNop())
	ctx := context.Background()

	// without holds the unique seat constraint fires inside the transaction
	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	conflict := &domain.SeatConflictError{Index: 1, FlightID: 5, Row: 2, Seat: 5}
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(conflict).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 2, Seat: 5},
		{FlightID: 5, Row: 2, Seat: 5},
	})

	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domain.ErrSeatTaken))
	m.orders.AssertExpectations(t)
	m.producer.AssertNotCalled(t, "Publish")
}

func TestOrderService_Create_RepoConflictReleasesHolds(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 2, 3, 30*time.Second).Return(true, nil).Once()
	m.cache.On("ReleaseSeatHold", ctx, int64(5), 2, 3).Return(nil).Once()

	conflict := &domain.SeatConflictError{Index: 0, FlightID: 5, Row: 2, Seat: 3}
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(conflict).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 2, Seat: 3},
	})

	assert.Nil(t, order)
	assert.Equal(t, conflict, err)
	m.cache.AssertExpectations(t)
	m.producer.AssertNotCalled(t, "Publish")
}

func TestOrderService_Create_Success(t *testing.T) {
	service, m := newTestOrderService(WithNotificationsTopic("notifications"))
	ctx := context.Background()
	createdAt := time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC)

	// two tickets on the same flight resolve the layout once
	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 1, 1, 30*time.Second).Return(true, nil).Once()
	m.cache.On("AcquireSeatHold", ctx, int64(5), 1, 2, 30*time.Second).Return(true, nil).Once()
	m.cache.On("ReleaseSeatHold", ctx, int64(5), 1, 1).Return(nil).Once()
	m.cache.On("ReleaseSeatHold", ctx, int64(5), 1, 2).Return(nil).Once()

	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 9
			order.CreatedAt = createdAt
		}).
		Return(nil).Once()

	m.users.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Email: "user@example.com"}, nil).Once()
	m.producer.On("Publish", ctx, "orders", "order-9", mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.OrderEvent)
		return ok && event.Type == "order_created" && event.OrderID == 9 &&
			event.Email == "user@example.com" && len(event.Tickets) == 2
	})).Return(nil).Once()
	m.producer.On("Publish", ctx, "notifications", "order-9", mock.Anything).Return(nil).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 1, Seat: 1},
		{FlightID: 5, Row: 1, Seat: 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), order.ID)
	assert.Equal(t, createdAt, order.CreatedAt)
	assert.Len(t, order.Tickets, 2)
	assert.Equal(t, 1, order.Tickets[0].Row)
	assert.Equal(t, 2, order.Tickets[1].Seat)
	m.flights.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.producer.AssertExpectations(t)
}

func TestOrderService_Create_WithoutCacheAndProducer(t *testing.T) {
	_, m := newTestOrderService()
	service := NewOrderService(m.orders, m.flights, m.users, nil, nil, "", 0, logger.NewNop())
	ctx := context.Background()

	m.flights.On("GetLayout", ctx, int64(5)).
		Return(&domain.SeatLayout{Rows: 6, SeatsInRow: 5}, nil).Once()
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

	order, err := service.Create(ctx, 1, []domain.TicketSpec{
		{FlightID: 5, Row: 3, Seat: 4},
	})

	assert.NoError(t, err)
	assert.Len(t, order.Tickets, 1)
	m.orders.AssertExpectations(t)
}

func TestOrderService_ListByUser(t *testing.T) {
	service, m := newTestOrderService()
	ctx := context.Background()

	expected := []domain.Order{{ID: 3, UserID: 7}}
	m.orders.On("ListByUser", ctx, int64(7), 10, 0).Return(expected, 1, nil).Once()

	orders, total, err := service.ListByUser(ctx, 7, 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, expected, orders)
	m.orders.AssertExpectations(t)
}
