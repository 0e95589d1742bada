package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (email, password_hash, is_staff) VALUES ($1, $2, $3) RETURNING id, created_at`,
		user.Email, user.PasswordHash, user.IsStaff).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, is_staff, created_at FROM users WHERE email=$1`, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, is_staff, created_at FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
