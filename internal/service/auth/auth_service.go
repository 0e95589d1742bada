package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyfare/airline-service/internal/domain"
	"github.com/skyfare/airline-service/internal/repository"
)

const minPasswordLength = 5

type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type AuthService struct {
	users     repository.UserRepository
	jwtSecret string
	accessTTL time.Duration
}

func NewAuthService(users repository.UserRepository, jwtSecret string, accessTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, accessTTL: accessTTL}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return nil, &domain.ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	if len(password) < minPasswordLength {
		return nil, &domain.ValidationError{Field: "password", Message: "password must be at least 5 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if err == domain.ErrEmailTaken {
			return nil, &domain.ValidationError{Field: "email", Message: "email is already registered"}
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return "", nil, &domain.ValidationError{Field: "email", Message: "invalid credentials"}
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, &domain.ValidationError{Field: "email", Message: "invalid credentials"}
	}

	token, err := s.mintToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetByID backs the current-user endpoint.
func (s *AuthService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) mintToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role(),
		"exp":  now.Add(s.accessTTL).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

var _ AuthUseCase = (*AuthService)(nil)
