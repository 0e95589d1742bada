package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
	Update(ctx context.Context, airport *domain.Airport) error
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, imagePath string) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

const airportSelect = `SELECT a.id, a.name, a.city_id, COALESCE(c.name, ''), COALESCE(a.image_path, '')
	FROM airports a LEFT JOIN cities c ON c.id = a.city_id`

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, airportSelect+` ORDER BY a.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.CityID, &a.CityName, &a.ImagePath); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, airportSelect+` WHERE a.id=$1`, id)
	var a domain.Airport
	if err := row.Scan(&a.ID, &a.Name, &a.CityID, &a.CityName, &a.ImagePath); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (name, city_id) VALUES ($1, $2) RETURNING id`,
		airport.Name, airport.CityID).Scan(&airport.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ValidationError{Field: "name", Message: "an airport with this name already exists"}
		}
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "closest_big_city", Message: "city does not exist"}
		}
	}
	return err
}

func (r *PGAirportRepository) Update(ctx context.Context, airport *domain.Airport) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airports SET name=$1, city_id=$2 WHERE id=$3`,
		airport.Name, airport.CityID, airport.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ValidationError{Field: "name", Message: "an airport with this name already exists"}
		}
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "closest_big_city", Message: "city does not exist"}
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirportRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirportRepository) SetImage(ctx context.Context, id int64, imagePath string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airports SET image_path=$1 WHERE id=$2`, imagePath, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
