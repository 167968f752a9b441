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
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// sqlxCoupleRepository implements domain.CoupleRepository using sqlx.
type sqlxCoupleRepository struct {
	db *sqlx.DB
}

// NewSQLXCoupleRepository creates a new instance of sqlxCoupleRepository.
func NewSQLXCoupleRepository(db *sqlx.DB) domain.CoupleRepository {
	return &sqlxCoupleRepository{db: db}
}

func toDomainCouple(m *models.Couple) *domain.Couple {
	if m == nil {
		return nil
	}
	return &domain.Couple{
		ID:          m.ID,
		User1ID:     m.User1ID,
		User2ID:     util.NullStringToPtr(m.User2ID),
		LinkingCode: util.NullStringToPtr(m.LinkingCode),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreatePendingCouple inserts a Pending row. The partial unique index on
// linking_code makes a concurrent collision fail here atomically instead
// of relying on any pre-check; callers retry with a fresh code.
func (r *sqlxCoupleRepository) CreatePendingCouple(ctx context.Context, couple *domain.Couple) error {
	q := GetExecutor(ctx, r.db)
	query := `INSERT INTO couples (id, user1_id, linking_code, created_at, updated_at)
	          VALUES (:id, :user1_id, :linking_code, :created_at, :updated_at)`

	now := time.Now()
	row := &models.Couple{
		ID:          couple.ID,
		User1ID:     couple.User1ID,
		LinkingCode: util.PtrToNullString(couple.LinkingCode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := q.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrLinkingCodeTaken
		}
		return fmt.Errorf("failed to create pending couple: %w", err)
	}
	couple.CreatedAt = now
	couple.UpdatedAt = now
	return nil
}

// DeletePendingCouplesByUser removes the user's unclaimed invites.
func (r *sqlxCoupleRepository) DeletePendingCouplesByUser(ctx context.Context, userID string) (int64, error) {
	q := GetExecutor(ctx, r.db)
	query := `DELETE FROM couples WHERE user1_id = $1 AND user2_id IS NULL`

	result, err := q.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending couples: %w", err)
	}
	return result.RowsAffected()
}

// ClaimCode links claimerID into the pending couple holding code. The
// write is one conditional UPDATE: it sets user2, nulls the code, and
// canonicalizes member order (smaller id first) in the same statement, so
// two concurrent claims produce exactly one winner. The preceding SELECT
// only disambiguates the failure taxonomy; it carries no write authority.
func (r *sqlxCoupleRepository) ClaimCode(ctx context.Context, claimerID, code string) (*domain.ClaimResult, error) {
	q := GetExecutor(ctx, r.db)

	var existing models.Couple
	findQuery := `SELECT id, user1_id, user2_id, linking_code, created_at, updated_at
	              FROM couples WHERE linking_code = $1`
	if err := q.GetContext(ctx, &existing, findQuery, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ClaimResult{Outcome: domain.ClaimNotFound}, nil
		}
		return nil, fmt.Errorf("failed to look up linking code: %w", err)
	}
	if existing.User1ID == claimerID {
		return &domain.ClaimResult{Outcome: domain.ClaimSelfLink}, nil
	}
	if existing.User2ID.Valid {
		return &domain.ClaimResult{Outcome: domain.ClaimAlreadyClaimed}, nil
	}

	var updated models.Couple
	claimQuery := `UPDATE couples
	               SET user1_id = LEAST(user1_id, $1),
	                   user2_id = GREATEST(user1_id, $1),
	                   linking_code = NULL,
	                   updated_at = $2
	               WHERE id = $3 AND linking_code = $4 AND user2_id IS NULL AND user1_id <> $1
	               RETURNING id, user1_id, user2_id, linking_code, created_at, updated_at`
	err := q.QueryRowxContext(ctx, claimQuery, claimerID, time.Now(), existing.ID, code).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Another claimer won between our read and this update.
			return &domain.ClaimResult{Outcome: domain.ClaimAlreadyClaimed}, nil
		}
		return nil, fmt.Errorf("failed to claim linking code: %w", err)
	}

	return &domain.ClaimResult{
		Outcome: domain.ClaimOK,
		Couple:  toDomainCouple(&updated),
	}, nil
}

// GetLinkedCouplesByUser returns every Linked couple the user belongs to.
// Pending rows never qualify, including the user's own open invite.
func (r *sqlxCoupleRepository) GetLinkedCouplesByUser(ctx context.Context, userID string) ([]*domain.Couple, error) {
	q := GetExecutor(ctx, r.db)
	var rows []models.Couple
	query := `SELECT id, user1_id, user2_id, linking_code, created_at, updated_at
	          FROM couples
	          WHERE (user1_id = $1 OR user2_id = $1) AND user2_id IS NOT NULL
	          ORDER BY created_at`

	if err := q.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get couples for user: %w", err)
	}

	couples := make([]*domain.Couple, 0, len(rows))
	for i := range rows {
		couples = append(couples, toDomainCouple(&rows[i]))
	}
	return couples, nil
}

// GetCoupleByID returns the couple or (nil, nil) when absent.
func (r *sqlxCoupleRepository) GetCoupleByID(ctx context.Context, coupleID string) (*domain.Couple, error) {
	q := GetExecutor(ctx, r.db)
	var row models.Couple
	query := `SELECT id, user1_id, user2_id, linking_code, created_at, updated_at
	          FROM couples WHERE id = $1`

	if err := q.GetContext(ctx, &row, query, coupleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return toDomainCouple(&row), nil
}
