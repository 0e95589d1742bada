package catalog

import (
	"context"
	"io"
	"strings"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/repository"
	"github.com/skyfare/airline-service/pkg/logger"
)

// RouteCache keeps the rarely-changing route list out of the database.
type RouteCache interface {
	GetRoutes(ctx context.Context) ([]domain.Route, error)
	SetRoutes(ctx context.Context, routes []domain.Route) error
	InvalidateRoutes(ctx context.Context) error
}

// ImageStore persists uploaded airport images and returns the stored path.
type ImageStore interface {
	SaveAirportImage(airportName, filename string, src io.Reader) (string, error)
}

// CatalogService fronts the reference entities. The flat lookups have no
// behavior, so their repositories are exposed directly; routes and airports
// carry the validation and the image flow.
type CatalogService struct {
	Countries     repository.NamedRepository
	Cities        repository.CityRepository
	Crews         repository.CrewRepository
	AirplaneTypes repository.NamedRepository
	AirCompanies  repository.NamedRepository

	airports repository.AirportRepository
	routes   repository.RouteRepository
	cache    RouteCache
	store    ImageStore
	log      logger.Logger
}

func NewCatalogService(
	countries repository.NamedRepository,
	cities repository.CityRepository,
	crews repository.CrewRepository,
	airplaneTypes repository.NamedRepository,
	airCompanies repository.NamedRepository,
	airports repository.AirportRepository,
	routes repository.RouteRepository,
	cache RouteCache,
	store ImageStore,
	log logger.Logger,
) *CatalogService {
	return &CatalogService{
		Countries:     countries,
		Cities:        cities,
		Crews:         crews,
		AirplaneTypes: airplaneTypes,
		AirCompanies:  airCompanies,
		airports:      airports,
		routes:        routes,
		cache:         cache,
		store:         store,
		log:           log,
	}
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.List(ctx)
}

func (s *CatalogService) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.airports.GetByID(ctx, id)
}

func (s *CatalogService) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	if strings.TrimSpace(airport.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "name must not be blank"}
	}
	return s.airports.Create(ctx, airport)
}

func (s *CatalogService) UpdateAirport(ctx context.Context, airport *domain.Airport) error {
	if strings.TrimSpace(airport.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "name must not be blank"}
	}
	if err := s.airports.Update(ctx, airport); err != nil {
		return err
	}
	// route list renders airport names
	s.invalidateRoutes(ctx)
	return nil
}

func (s *CatalogService) DeleteAirport(ctx context.Context, id int64) error {
	if err := s.airports.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRoutes(ctx)
	return nil
}

// UploadAirportImage stores a multipart image and records its path on the
// airport. Non-image payloads are rejected before anything touches disk.
func (s *CatalogService) UploadAirportImage(ctx context.Context, id int64, filename, contentType string, src io.Reader) (*domain.Airport, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &domain.ValidationError{Field: "image", Message: "upload a valid image"}
	}

	airport, err := s.airports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.store.SaveAirportImage(airport.Name, filename, src)
	if err != nil {
		return nil, err
	}
	if err := s.airports.SetImage(ctx, id, path); err != nil {
		return nil, err
	}
	airport.ImagePath = path
	return airport, nil
}

func (s *CatalogService) ListRoutes(ctx context.Context, filter domain.RouteFilter) ([]domain.Route, error) {
	unfiltered := filter.Source == "" && filter.Destination == ""
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	routes, err := s.routes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if unfiltered && s.cache != nil {
		if err := s.cache.SetRoutes(ctx, routes); err != nil {
			s.log.Warn("route cache write failed", "error", err)
		}
	}
	return routes, nil
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	return s.routes.GetDetail(ctx, id)
}

func (s *CatalogService) CreateRoute(ctx context.Context, route *domain.Route) error {
	if err := validateRoute(route); err != nil {
		return err
	}
	if err := s.routes.Create(ctx, route); err != nil {
		return err
	}
	s.invalidateRoutes(ctx)
	return nil
}

func (s *CatalogService) UpdateRoute(ctx context.Context, route *domain.Route) error {
	if err := validateRoute(route); err != nil {
		return err
	}
	if err := s.routes.Update(ctx, route); err != nil {
		return err
	}
	s.invalidateRoutes(ctx)
	return nil
}

func (s *CatalogService) DeleteRoute(ctx context.Context, id int64) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRoutes(ctx)
	return nil
}

func validateRoute(route *domain.Route) error {
	if route.Distance <= 0 {
		return &domain.ValidationError{Field: "distance", Message: "distance must be a positive number"}
	}
	if route.SourceID != nil && route.DestinationID != nil && *route.SourceID == *route.DestinationID {
		return &domain.ValidationError{Field: "destination", Message: "destination must differ from source"}
	}
	return nil
}

func (s *CatalogService) invalidateRoutes(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoutes(ctx); err != nil {
		s.log.Warn("route cache invalidation failed", "error", err)
	}
}
