package flights

import (
	"context"
	"time"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter, limit, offset int) ([]domain.FlightListItem, int, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type FlightService struct {
	repo repository.FlightRepository
	now  func() time.Time
}

func NewFlightService(repo repository.FlightRepository) *FlightService {
	return &FlightService{repo: repo, now: time.Now}
}

// WithClock overrides the wall clock used by the temporal validator.
func (s *FlightService) WithClock(now func() time.Time) *FlightService {
	s.now = now
	return s
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter, limit, offset int) ([]domain.FlightListItem, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if err := domain.ValidateFlightTimes(flight.DepartureTime, flight.ArrivalTime, s.now()); err != nil {
		return err
	}
	return s.repo.Create(ctx, flight)
}

func (s *FlightService) Update(ctx context.Context, flight *domain.Flight) error {
	if err := domain.ValidateFlightTimes(flight.DepartureTime, flight.ArrivalTime, s.now()); err != nil {
		return err
	}
	return s.repo.Update(ctx, flight)
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
