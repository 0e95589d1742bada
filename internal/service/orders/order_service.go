package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/kafka"
	"github.com/skyfare/airline-service/internal/repository"
	"github.com/skyfare/airline-service/pkg/logger"
	"github.com/skyfare/airline-service/pkg/metrics"
)

type OrderUseCase interface {
	Create(ctx context.Context, userID int64, specs []domain.TicketSpec) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error)
}

// SeatCache holds advisory seat locks while the order transaction runs.
// The unique constraint on tickets stays the authority either way.
type SeatCache interface {
	AcquireSeatHold(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, flightID int64, row, seat int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type OrderService struct {
	orders             repository.OrderRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	cache              SeatCache
	producer           Producer
	ordersTopic        string
	notificationsTopic string
	holdTTL            time.Duration
	metrics            *metrics.Metrics
	log                logger.Logger
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) OrderServiceOption {
	return func(s *OrderService) {
		s.metrics = m
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	cache SeatCache,
	producer Producer,
	ordersTopic string,
	holdTTL time.Duration,
	log logger.Logger,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:      orders,
		flights:     flights,
		users:       users,
		cache:       cache,
		producer:    producer,
		ordersTopic: ordersTopic,
		holdTTL:     holdTTL,
		log:         log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create places an order: every ticket is validated against its flight's
// airplane layout, then the whole set is persisted in one transaction.
// Any failure leaves nothing behind.
func (s *OrderService) Create(ctx context.Context, userID int64, specs []domain.TicketSpec) (*domain.Order, error) {
	start := time.Now()

	if len(specs) == 0 {
		return nil, &domain.ValidationError{Field: "tickets", Message: "an order must contain at least one ticket"}
	}

	layouts := make(map[int64]*domain.SeatLayout)
	for i, spec := range specs {
		layout, ok := layouts[spec.FlightID]
		if !ok {
			var err error
			layout, err = s.flights.GetLayout(ctx, spec.FlightID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, &domain.ValidationError{
						Field:   "flight",
						Message: fmt.Sprintf("tickets[%d]: flight %d does not exist", i, spec.FlightID),
					}
				}
				return nil, err
			}
			layouts[spec.FlightID] = layout
		}
		if err := domain.ValidateSeatRow(spec.Row, spec.Seat, layout.Rows, layout.SeatsInRow); err != nil {
			return nil, err
		}
	}

	held := make([]domain.TicketSpec, 0, len(specs))
	releaseHolds := func() {
		for _, h := range held {
			if err := s.cache.ReleaseSeatHold(ctx, h.FlightID, h.Row, h.Seat); err != nil {
				s.log.Warn("failed to release seat hold", "flight_id", h.FlightID, "row", h.Row, "seat", h.Seat, "error", err)
			}
		}
	}
	if s.cache != nil {
		for i, spec := range specs {
			ok, err := s.cache.AcquireSeatHold(ctx, spec.FlightID, spec.Row, spec.Seat, s.holdTTL)
			if err != nil {
				releaseHolds()
				return nil, err
			}
			if !ok {
				releaseHolds()
				s.countConflict()
				return nil, &domain.SeatConflictError{Index: i, FlightID: spec.FlightID, Row: spec.Row, Seat: spec.Seat}
			}
			held = append(held, spec)
		}
	}

	order := &domain.Order{UserID: userID, Tickets: make([]domain.Ticket, len(specs))}
	for i, spec := range specs {
		order.Tickets[i] = domain.Ticket{FlightID: spec.FlightID, Row: spec.Row, Seat: spec.Seat}
	}

	err := s.orders.Create(ctx, order)
	if s.cache != nil {
		// once committed the unique constraint owns the seat; on failure
		// the seats go back up for grabs
		releaseHolds()
	}
	if err != nil {
		var conflict *domain.SeatConflictError
		if errors.As(err, &conflict) {
			s.countConflict()
		}
		return nil, err
	}

	s.countOrder(len(order.Tickets), time.Since(start))
	s.publishCreated(ctx, order)
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *OrderService) publishCreated(ctx context.Context, order *domain.Order) {
	if s.producer == nil || s.ordersTopic == "" {
		return
	}

	email := ""
	if user, err := s.users.GetByID(ctx, order.UserID); err == nil {
		email = user.Email
	} else {
		s.log.Warn("failed to resolve order owner for event", "order_id", order.ID, "error", err)
	}

	event := kafka.OrderEvent{
		Type:      "order_created",
		OrderID:   order.ID,
		UserID:    order.UserID,
		Email:     email,
		CreatedAt: order.CreatedAt,
		Tickets:   make([]kafka.OrderEventTicket, 0, len(order.Tickets)),
	}
	for _, t := range order.Tickets {
		event.Tickets = append(event.Tickets, kafka.OrderEventTicket{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}

	key := fmt.Sprintf("order-%d", order.ID)
	if err := s.producer.Publish(ctx, s.ordersTopic, key, event); err != nil {
		s.log.Warn("failed to publish order_created event", "order_id", order.ID, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("failed to publish order notification", "order_id", order.ID, "error", err)
		}
	}
}

func (s *OrderService) countOrder(tickets int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrdersCreated.Inc()
	s.metrics.TicketsBooked.Add(float64(tickets))
	s.metrics.OrderDuration.Observe(elapsed.Seconds())
}

func (s *OrderService) countConflict() {
	if s.metrics != nil {
		s.metrics.SeatConflicts.Inc()
	}
}

var _ OrderUseCase = (*OrderService)(nil)
