package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pairquiz/internal/domain"
	"pairquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}
	return &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

// CreateUser inserts a new user row.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	q := GetExecutor(ctx, r.db)
	query := `INSERT INTO users (id, email, created_at, updated_at)
	          VALUES (:id, :email, :created_at, :updated_at)`

	now := time.Now()
	row := &models.User{
		ID:        user.ID,
		Email:     strings.ToLower(user.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := q.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetUserByID retrieves a user by id. Returns (nil, nil) when not found.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	q := GetExecutor(ctx, r.db)
	var row models.User
	query := `SELECT id, email, created_at, updated_at, deleted_at
	          FROM users WHERE id = $1 AND deleted_at IS NULL`

	if err := q.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toDomainUser(&row), nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when not found.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := GetExecutor(ctx, r.db)
	var row models.User
	query := `SELECT id, email, created_at, updated_at, deleted_at
	          FROM users WHERE email = $1 AND deleted_at IS NULL`

	if err := q.GetContext(ctx, &row, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&row), nil
}
