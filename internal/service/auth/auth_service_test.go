package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyfare/airline-service/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthService_Register_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "test@example.com" && u.PasswordHash != "" && !u.IsStaff
	})).Return(nil).Once()

	user, err := service.Register(ctx, "Test@Example.com ", "unique_password")

	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	_, err := service.Register(context.Background(), "not-an-email", "unique_password")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	_, err := service.Register(context.Background(), "test@example.com", "abc")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailTaken).Once()

	_, err := service.Register(ctx, "test@example.com", "unique_password")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	hash, _ := bcrypt.GenerateFromPassword([]byte("unique_password"), bcrypt.MinCost)
	user := &domain.User{ID: 7, Email: "admin@admin.com", PasswordHash: string(hash), IsStaff: true}

	ctx := context.Background()
	mockRepo.On("GetByEmail", ctx, "admin@admin.com").Return(user, nil).Once()

	token, got, err := service.Login(ctx, "admin@admin.com", "unique_password")

	assert.NoError(t, err)
	assert.Equal(t, user, got)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	hash, _ := bcrypt.GenerateFromPassword([]byte("unique_password"), bcrypt.MinCost)
	user := &domain.User{ID: 7, Email: "test@example.com", PasswordHash: string(hash)}

	ctx := context.Background()
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()

	_, _, err := service.Login(ctx, "test@example.com", "wrong")

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewAuthService(mockRepo, "secret", time.Hour)

	ctx := context.Background()
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound).Once()

	_, _, err := service.Login(ctx, "nobody@example.com", "unique_password")

	// the caller cannot tell a missing user from a wrong password
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockRepo.AssertExpectations(t)
}
