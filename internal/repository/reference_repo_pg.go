package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

// NamedRepository covers the flat lookup tables: countries, airplane_types
// and air_companies all store a unique name with an id.
type NamedRepository interface {
	List(ctx context.Context) ([]domain.Named, error)
	GetByID(ctx context.Context, id int64) (*domain.Named, error)
	Create(ctx context.Context, name string) (*domain.Named, error)
	Update(ctx context.Context, id int64, name string) (*domain.Named, error)
	Delete(ctx context.Context, id int64) error
}

type PGNamedRepository struct {
	db    *pgxpool.Pool
	table string
}

func NewCountryRepository(db *pgxpool.Pool) NamedRepository {
	return &PGNamedRepository{db: db, table: "countries"}
}

func NewAirplaneTypeRepository(db *pgxpool.Pool) NamedRepository {
	return &PGNamedRepository{db: db, table: "airplane_types"}
}

func NewAirCompanyRepository(db *pgxpool.Pool) NamedRepository {
	return &PGNamedRepository{db: db, table: "air_companies"}
}

func (r *PGNamedRepository) List(ctx context.Context) ([]domain.Named, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, r.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Named, 0)
	for rows.Next() {
		var n domain.Named
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *PGNamedRepository) GetByID(ctx context.Context, id int64) (*domain.Named, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id=$1`, r.table), id)
	var n domain.Named
	if err := row.Scan(&n.ID, &n.Name); err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *PGNamedRepository) Create(ctx context.Context, name string) (*domain.Named, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name`, r.table), name)
	var n domain.Named
	if err := row.Scan(&n.ID, &n.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ValidationError{Field: "name", Message: "an entry with this name already exists"}
		}
		return nil, err
	}
	return &n, nil
}

func (r *PGNamedRepository) Update(ctx context.Context, id int64, name string) (*domain.Named, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`UPDATE %s SET name=$1 WHERE id=$2 RETURNING id, name`, r.table), name, id)
	var n domain.Named
	if err := row.Scan(&n.ID, &n.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ValidationError{Field: "name", Message: "an entry with this name already exists"}
		}
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *PGNamedRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, r.table), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ NamedRepository = (*PGNamedRepository)(nil)

type CityRepository interface {
	List(ctx context.Context) ([]domain.City, error)
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	Create(ctx context.Context, city *domain.City) error
	Update(ctx context.Context, city *domain.City) error
}

type PGCityRepository struct {
	db *pgxpool.Pool
}

func NewCityRepository(db *pgxpool.Pool) CityRepository {
	return &PGCityRepository{db: db}
}

const citySelect = `SELECT c.id, c.name, c.country_id, COALESCE(co.name, '')
	FROM cities c LEFT JOIN countries co ON co.id = c.country_id`

func (r *PGCityRepository) List(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Query(ctx, citySelect+` ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]domain.City, 0)
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID, &c.CountryName); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *PGCityRepository) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	row := r.db.QueryRow(ctx, citySelect+` WHERE c.id=$1`, id)
	var c domain.City
	if err := row.Scan(&c.ID, &c.Name, &c.CountryID, &c.CountryName); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *PGCityRepository) Create(ctx context.Context, city *domain.City) error {
	err := r.db.QueryRow(ctx, `INSERT INTO cities (name, country_id) VALUES ($1, $2) RETURNING id`,
		city.Name, city.CountryID).Scan(&city.ID)
	if isForeignKeyViolation(err) {
		return &domain.ValidationError{Field: "country", Message: "country does not exist"}
	}
	return err
}

func (r *PGCityRepository) Update(ctx context.Context, city *domain.City) error {
	cmd, err := r.db.Exec(ctx, `UPDATE cities SET name=$1, country_id=$2 WHERE id=$3`,
		city.Name, city.CountryID, city.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "country", Message: "country does not exist"}
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CityRepository = (*PGCityRepository)(nil)

type CrewRepository interface {
	List(ctx context.Context) ([]domain.Crew, error)
	GetByID(ctx context.Context, id int64) (*domain.Crew, error)
	Create(ctx context.Context, crew *domain.Crew) error
	Update(ctx context.Context, crew *domain.Crew) error
	Delete(ctx context.Context, id int64) error
}

type PGCrewRepository struct {
	db *pgxpool.Pool
}

func NewCrewRepository(db *pgxpool.Pool) CrewRepository {
	return &PGCrewRepository{db: db}
}

func (r *PGCrewRepository) List(ctx context.Context) ([]domain.Crew, error) {
	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name FROM crews ORDER BY first_name, last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		crews = append(crews, c)
	}
	return crews, rows.Err()
}

func (r *PGCrewRepository) GetByID(ctx context.Context, id int64) (*domain.Crew, error) {
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name FROM crews WHERE id=$1`, id)
	var c domain.Crew
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *PGCrewRepository) Create(ctx context.Context, crew *domain.Crew) error {
	return r.db.QueryRow(ctx, `INSERT INTO crews (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		crew.FirstName, crew.LastName).Scan(&crew.ID)
}

func (r *PGCrewRepository) Update(ctx context.Context, crew *domain.Crew) error {
	cmd, err := r.db.Exec(ctx, `UPDATE crews SET first_name=$1, last_name=$2 WHERE id=$3`,
		crew.FirstName, crew.LastName, crew.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGCrewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM crews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CrewRepository = (*PGCrewRepository)(nil)
