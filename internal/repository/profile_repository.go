package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pairquiz/internal/domain"
	"pairquiz/internal/repository/models"
	"pairquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxProfileRepository implements domain.ProfileRepository using sqlx.
type sqlxProfileRepository struct {
	db *sqlx.DB
}

// NewSQLXProfileRepository creates a new instance of sqlxProfileRepository.
func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileRepository {
	return &sqlxProfileRepository{db: db}
}

func toDomainProfile(m *models.Profile) *domain.Profile {
	if m == nil {
		return nil
	}
	return &domain.Profile{
		ID:        m.ID,
		FirstName: util.NullStringToPtr(m.FirstName),
		LastName:  util.NullStringToPtr(m.LastName),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// EnsureProfile inserts an empty profile row for the user if absent.
// ON CONFLICT DO NOTHING keeps this safe under concurrent first access.
func (r *sqlxProfileRepository) EnsureProfile(ctx context.Context, userID string) error {
	q := GetExecutor(ctx, r.db)
	query := `INSERT INTO profiles (id, created_at, updated_at)
	          VALUES ($1, $2, $2)
	          ON CONFLICT (id) DO NOTHING`

	if _, err := q.ExecContext(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by user id. Returns (nil, nil) when absent.
func (r *sqlxProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	q := GetExecutor(ctx, r.db)
	var row models.Profile
	query := `SELECT id, first_name, last_name, created_at, updated_at
	          FROM profiles WHERE id = $1`

	if err := q.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toDomainProfile(&row), nil
}

// GetProfilesByIDs retrieves the profiles for a set of user ids.
func (r *sqlxProfileRepository) GetProfilesByIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := GetExecutor(ctx, r.db)

	query, args, err := sqlx.In(
		`SELECT id, first_name, last_name, created_at, updated_at FROM profiles WHERE id IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build profiles query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.Profile
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, toDomainProfile(&rows[i]))
	}
	return profiles, nil
}

// UpdateProfile updates the display names.
func (r *sqlxProfileRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	q := GetExecutor(ctx, r.db)
	query := `UPDATE profiles SET first_name = $1, last_name = $2, updated_at = $3 WHERE id = $4`

	result, err := q.ExecContext(ctx, query,
		util.PtrToNullString(profile.FirstName),
		util.PtrToNullString(profile.LastName),
		time.Now(),
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
