package airplanes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfare/airline-service/internal/domain"
)

type MockAirplaneRepository struct {
	mock.Mock
}

func (m *MockAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) Create(ctx context.Context, airplane *domain.Airplane) error {
	args := m.Called(ctx, airplane)
	return args.Error(0)
}

func (m *MockAirplaneRepository) Update(ctx context.Context, airplane *domain.Airplane) error {
	args := m.Called(ctx, airplane)
	return args.Error(0)
}

func (m *MockAirplaneRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAirplaneRepository) MaxTicketSeat(ctx context.Context, airplaneID int64) (int, int, error) {
	args := m.Called(ctx, airplaneID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func TestAirplaneService_Create_InvalidLayout(t *testing.T) {
	mockRepo := &MockAirplaneRepository{}
	service := NewAirplaneService(mockRepo)

	var ve *domain.ValidationError

	err := service.Create(context.Background(), &domain.Airplane{Name: "Test Airplane", Rows: 0, SeatsInRow: 10})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "rows", ve.Field)

	err = service.Create(context.Background(), &domain.Airplane{Name: "Test Airplane", Rows: 6, SeatsInRow: 0})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "seats_in_row", ve.Field)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestAirplaneService_Update_ShrinkBelowBookedSeat(t *testing.T) {
	mockRepo := &MockAirplaneRepository{}
	service := NewAirplaneService(mockRepo)

	ctx := context.Background()
	mockRepo.On("MaxTicketSeat", ctx, int64(1)).Return(6, 5, nil).Twice()

	var ve *domain.ValidationError

	// a ticket sits at row 6: shrinking to 5 rows would orphan it
	err := service.Update(ctx, &domain.Airplane{ID: 1, Name: "Test Airplane", Rows: 5, SeatsInRow: 10})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "rows", ve.Field)

	err = service.Update(ctx, &domain.Airplane{ID: 1, Name: "Test Airplane", Rows: 6, SeatsInRow: 4})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "seats_in_row", ve.Field)

	mockRepo.AssertNotCalled(t, "Update")
	mockRepo.AssertExpectations(t)
}

func TestAirplaneService_Update_GrowIsAllowed(t *testing.T) {
	mockRepo := &MockAirplaneRepository{}
	service := NewAirplaneService(mockRepo)

	ctx := context.Background()
	airplane := &domain.Airplane{ID: 1, Name: "Test Airplane", Rows: 8, SeatsInRow: 6}

	mockRepo.On("MaxTicketSeat", ctx, int64(1)).Return(6, 5, nil).Once()
	mockRepo.On("Update", ctx, airplane).Return(nil).Once()

	assert.NoError(t, service.Update(ctx, airplane))
	mockRepo.AssertExpectations(t)
}
