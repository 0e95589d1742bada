package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type RouteRepository interface {
	List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	GetDetail(ctx context.Context, id int64) (*domain.RouteDetail, error)
	Create(ctx context.Context, route *domain.Route) error
	Update(ctx context.Context, route *domain.Route) error
	Delete(ctx context.Context, id int64) error
}

type PGRouteRepository struct {
	db *pgxpool.Pool
}

func NewRouteRepository(db *pgxpool.Pool) RouteRepository {
	return &PGRouteRepository{db: db}
}

const routeSelect = `SELECT r.id, r.source_id, COALESCE(s.name, ''), r.destination_id, COALESCE(d.name, ''), r.distance
	FROM routes r
	LEFT JOIN airports s ON s.id = r.source_id
	LEFT JOIN airports d ON d.id = r.destination_id`

func (r *PGRouteRepository) List(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	query := routeSelect
	args := make([]interface{}, 0, 2)
	where := ""
	if filter.Source != "" {
		args = append(args, "%"+filter.Source+"%")
		where = fmt.Sprintf(" WHERE s.name ILIKE $%d", len(args))
	}
	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		clause := fmt.Sprintf("d.name ILIKE $%d", len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	query += where + ` ORDER BY s.name, d.name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.ID, &rt.SourceID, &rt.SourceName, &rt.DestinationID, &rt.DestinationName, &rt.Distance); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	row := r.db.QueryRow(ctx, routeSelect+` WHERE r.id=$1`, id)
	var rt domain.Route
	if err := row.Scan(&rt.ID, &rt.SourceID, &rt.SourceName, &rt.DestinationID, &rt.DestinationName, &rt.Distance); err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (r *PGRouteRepository) GetDetail(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	row := r.db.QueryRow(ctx, `SELECT r.id, r.distance,
			s.id, s.name, s.city_id, COALESCE(sc.name, ''), COALESCE(s.image_path, ''),
			d.id, d.name, d.city_id, COALESCE(dc.name, ''), COALESCE(d.image_path, '')
		FROM routes r
		LEFT JOIN airports s ON s.id = r.source_id
		LEFT JOIN cities sc ON sc.id = s.city_id
		LEFT JOIN airports d ON d.id = r.destination_id
		LEFT JOIN cities dc ON dc.id = d.city_id
		WHERE r.id=$1`, id)

	var (
		detail             domain.RouteDetail
		source, dest       domain.Airport
		sourceID, destID   *int64
		sourceName         *string
		destName           *string
		sourceCity         *int64
		destCity           *int64
		sourceCityName     string
		destCityName       string
		sourceImage        string
		destImage          string
	)
	if err := row.Scan(&detail.ID, &detail.Distance,
		&sourceID, &sourceName, &sourceCity, &sourceCityName, &sourceImage,
		&destID, &destName, &destCity, &destCityName, &destImage); err != nil {
		return nil, notFound(err)
	}
	if sourceID != nil {
		source = domain.Airport{ID: *sourceID, Name: *sourceName, CityID: sourceCity, CityName: sourceCityName, ImagePath: sourceImage}
		detail.Source = &source
	}
	if destID != nil {
		dest = domain.Airport{ID: *destID, Name: *destName, CityID: destCity, CityName: destCityName, ImagePath: destImage}
		detail.Destination = &dest
	}
	return &detail, nil
}

func (r *PGRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	err := r.db.QueryRow(ctx, `INSERT INTO routes (source_id, destination_id, distance) VALUES ($1, $2, $3) RETURNING id`,
		route.SourceID, route.DestinationID, route.Distance).Scan(&route.ID)
	if isForeignKeyViolation(err) {
		return &domain.ValidationError{Field: "source", Message: "airport does not exist"}
	}
	return err
}

func (r *PGRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	cmd, err := r.db.Exec(ctx, `UPDATE routes SET source_id=$1, destination_id=$2, distance=$3 WHERE id=$4`,
		route.SourceID, route.DestinationID, route.Distance, route.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ValidationError{Field: "source", Message: "airport does not exist"}
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRouteRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ RouteRepository = (*PGRouteRepository)(nil)
