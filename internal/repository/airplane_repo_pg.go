package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type AirplaneRepository interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByID(ctx context.Context, id int64) (*domain.Airplane, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
	Update(ctx context.Context, airplane *domain.Airplane) error
	Delete(ctx context.Context, id int64) error
	// MaxTicketSeat reports the highest row and seat numbers among tickets on
	// any flight of the airplane. Both are zero when no tickets exist.
	MaxTicketSeat(ctx context.Context, airplaneID int64) (maxRow, maxSeat int, err error)
}

type PGAirplaneRepository struct {
	db *pgxpool.Pool
}

func NewAirplaneRepository(db *pgxpool.Pool) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

const airplaneSelect = `SELECT a.id, a.name, a.rows, a.seats_in_row,
		a.airplane_type_id, COALESCE(t.name, ''), a.air_company_id, COALESCE(c.name, '')
	FROM airplanes a
	LEFT JOIN airplane_types t ON t.id = a.airplane_type_id
	LEFT JOIN air_companies c ON c.id = a.air_company_id`

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.db.Query(ctx, airplaneSelect+` ORDER BY a.name, c.name, t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.TypeName, &a.AirCompanyID, &a.CompanyName); err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGAirplaneRepository) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	row := r.db.QueryRow(ctx, airplaneSelect+` WHERE a.id=$1`, id)
	var a domain.Airplane
	if err := row.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.TypeName, &a.AirCompanyID, &a.CompanyName); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *PGAirplaneRepository) Create(ctx context.Context, airplane *domain.Airplane) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id, air_company_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.AirplaneTypeID, airplane.AirCompanyID).
		Scan(&airplane.ID)
	if isForeignKeyViolation(err) {
		return &domain.ValidationError{Field: "airplane_type", Message: "referenced entity does not exist"}
	}
	return err
}

func (r *PGAirplaneRepository) Update(ctx context.Context, airplane *domain.Airplane) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airplanes SET name=$1, rows=$2, seats_in_row=$3, airplane_type_id=$4, air_company_id=$5 WHERE id=$6`,
		airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.AirplaneTypeID, airplane.AirCompanyID, airplane.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "airplane_type", Message: "referenced entity does not exist"}
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirplaneRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airplanes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirplaneRepository) MaxTicketSeat(ctx context.Context, airplaneID int64) (int, int, error) {
	row := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(t.row_num), 0), COALESCE(MAX(t.seat), 0)
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		WHERE f.airplane_id = $1`, airplaneID)
	var maxRow, maxSeat int
	if err := row.Scan(&maxRow, &maxSeat); err != nil {
		return 0, 0, err
	}
	return maxRow, maxSeat, nil
}

var _ AirplaneRepository = (*PGAirplaneRepository)(nil)
