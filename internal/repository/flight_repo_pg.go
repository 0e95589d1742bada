package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context, filter domain.FlightFilter, limit, offset int) ([]domain.FlightListItem, int, error)
	GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error)
	// GetLayout returns the airplane layout of a flight for seat validation.
	GetLayout(ctx context.Context, flightID int64) (*domain.SeatLayout, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func buildFlightWhere(filter domain.FlightFilter, args *[]interface{}) string {
	clauses := make([]string, 0, 3)
	if len(filter.RouteIDs) > 0 {
		*args = append(*args, filter.RouteIDs)
		clauses = append(clauses, fmt.Sprintf("f.route_id = ANY($%d)", len(*args)))
	}
	if filter.Departure != nil {
		*args = append(*args, filter.Departure.Format("2006-01-02"))
		clauses = append(clauses, fmt.Sprintf("f.departure_time::date = $%d::date", len(*args)))
	}
	if filter.Arrival != nil {
		*args = append(*args, filter.Arrival.Format("2006-01-02"))
		clauses = append(clauses, fmt.Sprintf("f.arrival_time::date = $%d::date", len(*args)))
	}
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter, limit, offset int) ([]domain.FlightListItem, int, error) {
	countArgs := make([]interface{}, 0, 3)
	countWhere := buildFlightWhere(filter, &countArgs)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flights f`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := make([]interface{}, 0, 5)
	where := buildFlightWhere(filter, &args)
	args = append(args, limit, offset)

	// tickets_available comes straight from the persisted ticket count on
	// every query, never from a cache.
	query := fmt.Sprintf(`SELECT f.id,
			COALESCE(s.name, '') || ' - ' || COALESCE(d.name, ''),
			a.name,
			a.rows * a.seats_in_row,
			a.rows * a.seats_in_row - COUNT(t.id)::int,
			f.departure_time, f.arrival_time,
			(SELECT COALESCE(array_agg(c.first_name || ' ' || c.last_name ORDER BY c.id), '{}')
				FROM flight_crews fc JOIN crews c ON c.id = fc.crew_id
				WHERE fc.flight_id = f.id)
		FROM flights f
		JOIN routes rt ON rt.id = f.route_id
		LEFT JOIN airports s ON s.id = rt.source_id
		LEFT JOIN airports d ON d.id = rt.destination_id
		JOIN airplanes a ON a.id = f.airplane_id
		LEFT JOIN tickets t ON t.flight_id = f.id
		%s
		GROUP BY f.id, s.name, d.name, a.id
		ORDER BY f.departure_time
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flights := make([]domain.FlightListItem, 0)
	for rows.Next() {
		var f domain.FlightListItem
		if err := rows.Scan(&f.ID, &f.Route, &f.Airplane, &f.AirplaneNumSeats, &f.TicketsAvailable,
			&f.DepartureTime, &f.ArrivalTime, &f.Crew); err != nil {
			return nil, 0, err
		}
		flights = append(flights, f)
	}
	return flights, total, rows.Err()
}

func (r *PGFlightRepository) GetDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	row := r.db.QueryRow(ctx, `SELECT f.id, f.departure_time, f.arrival_time, f.route_id,
			a.id, a.name, a.rows, a.seats_in_row,
			a.airplane_type_id, COALESCE(tp.name, ''), a.air_company_id, COALESCE(co.name, '')
		FROM flights f
		JOIN airplanes a ON a.id = f.airplane_id
		LEFT JOIN airplane_types tp ON tp.id = a.airplane_type_id
		LEFT JOIN air_companies co ON co.id = a.air_company_id
		WHERE f.id=$1`, id)

	var (
		detail  domain.FlightDetail
		routeID int64
	)
	if err := row.Scan(&detail.ID, &detail.DepartureTime, &detail.ArrivalTime, &routeID,
		&detail.Airplane.ID, &detail.Airplane.Name, &detail.Airplane.Rows, &detail.Airplane.SeatsInRow,
		&detail.Airplane.AirplaneTypeID, &detail.Airplane.TypeName,
		&detail.Airplane.AirCompanyID, &detail.Airplane.CompanyName); err != nil {
		return nil, notFound(err)
	}

	routeRepo := &PGRouteRepository{db: r.db}
	routeDetail, err := routeRepo.GetDetail(ctx, routeID)
	if err != nil {
		return nil, err
	}
	detail.Route = *routeDetail

	seatRows, err := r.db.Query(ctx, `SELECT row_num, seat FROM tickets WHERE flight_id=$1 ORDER BY seat, row_num`, id)
	if err != nil {
		return nil, err
	}
	defer seatRows.Close()
	detail.TakenSeats = make([]domain.SeatRef, 0)
	for seatRows.Next() {
		var s domain.SeatRef
		if err := seatRows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		detail.TakenSeats = append(detail.TakenSeats, s)
	}
	if err := seatRows.Err(); err != nil {
		return nil, err
	}

	crewRows, err := r.db.Query(ctx, `SELECT c.id, c.first_name, c.last_name
		FROM flight_crews fc JOIN crews c ON c.id = fc.crew_id
		WHERE fc.flight_id=$1 ORDER BY c.id`, id)
	if err != nil {
		return nil, err
	}
	defer crewRows.Close()
	detail.Crew = make([]domain.Crew, 0)
	for crewRows.Next() {
		var c domain.Crew
		if err := crewRows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		detail.Crew = append(detail.Crew, c)
	}
	return &detail, crewRows.Err()
}

func (r *PGFlightRepository) GetLayout(ctx context.Context, flightID int64) (*domain.SeatLayout, error) {
	row := r.db.QueryRow(ctx, `SELECT a.rows, a.seats_in_row
		FROM flights f JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id=$1`, flightID)
	var layout domain.SeatLayout
	if err := row.Scan(&layout.Rows, &layout.SeatsInRow); err != nil {
		return nil, notFound(err)
	}
	return &layout, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		flight.RouteID, flight.AirplaneID, flight.DepartureTime, flight.ArrivalTime).
		Scan(&flight.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "route", Message: "referenced entity does not exist"}
		}
		return err
	}
	if err := insertFlightCrews(ctx, tx, flight.ID, flight.CrewIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE flights SET route_id=$1, airplane_id=$2, departure_time=$3, arrival_time=$4 WHERE id=$5`,
		flight.RouteID, flight.AirplaneID, flight.DepartureTime, flight.ArrivalTime, flight.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "route", Message: "referenced entity does not exist"}
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flight_crews WHERE flight_id=$1`, flight.ID); err != nil {
		return err
	}
	if err := insertFlightCrews(ctx, tx, flight.ID, flight.CrewIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertFlightCrews(ctx context.Context, tx pgx.Tx, flightID int64, crewIDs []int64) error {
	for _, crewID := range crewIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO flight_crews (flight_id, crew_id) VALUES ($1, $2)`, flightID, crewID); err != nil {
			if isForeignKeyViolation(err) {
				return &domain.ValidationError{Field: "crew", Message: fmt.Sprintf("crew %d does not exist", crewID)}
			}
			return err
		}
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
