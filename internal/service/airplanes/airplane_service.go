package airplanes

import (
	"context"
	"fmt"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/repository"
)

type AirplaneUseCase interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByID(ctx context.Context, id int64) (*domain.Airplane, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
	Update(ctx context.Context, airplane *domain.Airplane) error
	Delete(ctx context.Context, id int64) error
}

type AirplaneService struct {
	repo repository.AirplaneRepository
}

func NewAirplaneService(repo repository.AirplaneRepository) *AirplaneService {
	return &AirplaneService{repo: repo}
}

func (s *AirplaneService) List(ctx context.Context) ([]domain.Airplane, error) {
	return s.repo.List(ctx)
}

func (s *AirplaneService) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirplaneService) Create(ctx context.Context, airplane *domain.Airplane) error {
	if err := validateLayout(airplane); err != nil {
		return err
	}
	return s.repo.Create(ctx, airplane)
}

// Update refuses to shrink a layout below a seat that is already ticketed
// on any flight of the airplane; otherwise existing tickets would point
// outside the plane.
func (s *AirplaneService) Update(ctx context.Context, airplane *domain.Airplane) error {
	if err := validateLayout(airplane); err != nil {
		return err
	}

	maxRow, maxSeat, err := s.repo.MaxTicketSeat(ctx, airplane.ID)
	if err != nil {
		return err
	}
	if maxRow > airplane.Rows {
		return &domain.ValidationError{
			Field:   "rows",
			Message: fmt.Sprintf("cannot shrink rows below %d: a ticket is booked at row %d", maxRow, maxRow),
		}
	}
	if maxSeat > airplane.SeatsInRow {
		return &domain.ValidationError{
			Field:   "seats_in_row",
			Message: fmt.Sprintf("cannot shrink seats_in_row below %d: a ticket is booked at seat %d", maxSeat, maxSeat),
		}
	}
	return s.repo.Update(ctx, airplane)
}

func (s *AirplaneService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateLayout(airplane *domain.Airplane) error {
	if airplane.Rows < 1 {
		return &domain.ValidationError{Field: "rows", Message: "rows must be a positive number"}
	}
	if airplane.SeatsInRow < 1 {
		return &domain.ValidationError{Field: "seats_in_row", Message: "seats_in_row must be a positive number"}
	}
	return nil
}

var _ AirplaneUseCase = (*AirplaneService)(nil)
