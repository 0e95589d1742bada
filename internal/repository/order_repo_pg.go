package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type OrderRepository interface {
	// Create persists the order and all its tickets in one transaction.
	// A unique-constraint hit on (flight_id, row_num, seat) rolls the whole
	// order back and surfaces as a SeatConflictError for the losing writer.
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`,
		order.UserID).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for i := range order.Tickets {
		t := &order.Tickets[i]
		t.OrderID = order.ID
		err := tx.QueryRow(ctx, `INSERT INTO tickets (flight_id, row_num, seat, order_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			t.FlightID, t.Row, t.Seat, order.ID).Scan(&t.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.SeatConflictError{Index: i, FlightID: t.FlightID, Row: t.Row, Seat: t.Seat}
			}
			if isForeignKeyViolation(err) {
				return &domain.ValidationError{Field: "flight", Message: "flight does not exist"}
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, user_id, created_at FROM orders
		WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		o.Tickets = make([]domain.Ticket, 0)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(orders) == 0 {
		return orders, total, nil
	}

	// tickets with their flight in list shape, same availability math as
	// the flight list
	ticketRows, err := r.db.Query(ctx, `SELECT t.id, t.flight_id, t.row_num, t.seat, t.order_id,
			COALESCE(s.name, '') || ' - ' || COALESCE(d.name, ''),
			a.name,
			a.rows * a.seats_in_row,
			a.rows * a.seats_in_row - (SELECT COUNT(*) FROM tickets tc WHERE tc.flight_id = f.id)::int,
			f.departure_time, f.arrival_time,
			(SELECT COALESCE(array_agg(c.first_name || ' ' || c.last_name ORDER BY c.id), '{}')
				FROM flight_crews fc JOIN crews c ON c.id = fc.crew_id
				WHERE fc.flight_id = f.id)
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		JOIN routes rt ON rt.id = f.route_id
		LEFT JOIN airports s ON s.id = rt.source_id
		LEFT JOIN airports d ON d.id = rt.destination_id
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE t.order_id = ANY($1)
		ORDER BY t.id`, ids)
	if err != nil {
		return nil, 0, err
	}
	defer ticketRows.Close()

	byOrder := make(map[int64]int, len(orders))
	for i, o := range orders {
		byOrder[o.ID] = i
	}
	for ticketRows.Next() {
		var (
			t      domain.Ticket
			flight domain.FlightListItem
		)
		if err := ticketRows.Scan(&t.ID, &t.FlightID, &t.Row, &t.Seat, &t.OrderID,
			&flight.Route, &flight.Airplane, &flight.AirplaneNumSeats, &flight.TicketsAvailable,
			&flight.DepartureTime, &flight.ArrivalTime, &flight.Crew); err != nil {
			return nil, 0, err
		}
		flight.ID = t.FlightID
		t.Flight = &flight
		if i, ok := byOrder[t.OrderID]; ok {
			orders[i].Tickets = append(orders[i].Tickets, t)
		}
	}
	return orders, total, ticketRows.Err()
}

var _ OrderRepository = (*PGOrderRepository)(nil)
