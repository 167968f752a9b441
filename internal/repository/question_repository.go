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

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainCategory(m *models.QuizCategory) *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Icon:        m.Icon.String,
		Color:       m.Color.String,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	var minScale, maxScale *int
	if m.MinScale.Valid {
		v := int(m.MinScale.Int64)
		minScale = &v
	}
	if m.MaxScale.Valid {
		v := int(m.MaxScale.Int64)
		maxScale = &v
	}
	var labels *domain.ScaleLabels
	if m.ScaleLabels != nil {
		labels = &domain.ScaleLabels{Min: m.ScaleLabels["min"], Max: m.ScaleLabels["max"]}
	}
	return &domain.Question{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Text:        m.Text,
		Type:        domain.QuestionType(m.QuestionType),
		Options:     m.Options,
		MinScale:    minScale,
		MaxScale:    maxScale,
		ScaleLabels: labels,
		IsActive:    m.IsActive,
		ReleaseDate: m.ReleaseDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// GetCategories returns every catalog category, question lists unset.
func (r *sqlxQuestionRepository) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	q := GetExecutor(ctx, r.db)
	var rows []models.QuizCategory
	query := `SELECT id, name, icon, color, description, created_at, updated_at
	          FROM quiz_categories ORDER BY name`

	if err := q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, toDomainCategory(&rows[i]))
	}
	return categories, nil
}

// GetCategoryByID returns the category or (nil, nil) when absent.
func (r *sqlxQuestionRepository) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	q := GetExecutor(ctx, r.db)
	var row models.QuizCategory
	query := `SELECT id, name, icon, color, description, created_at, updated_at
	          FROM quiz_categories WHERE id = $1`

	if err := q.GetContext(ctx, &row, query, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return toDomainCategory(&row), nil
}

// GetActiveQuestionIDs returns ids of questions in the category that are
// active at the given instant.
func (r *sqlxQuestionRepository) GetActiveQuestionIDs(ctx context.Context, categoryID string, now time.Time) ([]string, error) {
	q := GetExecutor(ctx, r.db)
	var ids []string
	query := `SELECT id FROM questions
	          WHERE category_id = $1 AND is_active = TRUE AND release_date <= $2
	          ORDER BY release_date, id`

	if err := q.SelectContext(ctx, &ids, query, categoryID, now); err != nil {
		return nil, fmt.Errorf("failed to get active question ids: %w", err)
	}
	return ids, nil
}

// GetQuestionIDs returns all question ids in the category regardless of
// visibility.
func (r *sqlxQuestionRepository) GetQuestionIDs(ctx context.Context, categoryID string) ([]string, error) {
	q := GetExecutor(ctx, r.db)
	var ids []string
	query := `SELECT id FROM questions WHERE category_id = $1 ORDER BY release_date, id`

	if err := q.SelectContext(ctx, &ids, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get question ids: %w", err)
	}
	return ids, nil
}

// GetActiveQuestionsByCategory returns the full active questions for the
// category at the given instant.
func (r *sqlxQuestionRepository) GetActiveQuestionsByCategory(ctx context.Context, categoryID string, now time.Time) ([]*domain.Question, error) {
	q := GetExecutor(ctx, r.db)
	var rows []models.Question
	query := `SELECT id, category_id, question_text, question_type, options,
	                 min_scale, max_scale, scale_labels, is_active, release_date,
	                 created_at, updated_at
	          FROM questions
	          WHERE category_id = $1 AND is_active = TRUE AND release_date <= $2
	          ORDER BY release_date, id`

	if err := q.SelectContext(ctx, &rows, query, categoryID, now); err != nil {
		return nil, fmt.Errorf("failed to get active questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// SaveCategory inserts a category row; name collisions update the
// descriptive fields. Used by the seed command.
func (r *sqlxQuestionRepository) SaveCategory(ctx context.Context, category *domain.Category) error {
	q := GetExecutor(ctx, r.db)
	query := `INSERT INTO quiz_categories (id, name, icon, color, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)
	          ON CONFLICT (name) DO UPDATE
	          SET icon = EXCLUDED.icon, color = EXCLUDED.color,
	              description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`

	_, err := q.ExecContext(ctx, query,
		category.ID,
		category.Name,
		util.StringToNullString(category.Icon),
		util.StringToNullString(category.Color),
		util.StringToNullString(category.Description),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// SaveQuestion inserts a question row. Used by the seed command.
func (r *sqlxQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	q := GetExecutor(ctx, r.db)
	query := `INSERT INTO questions (id, category_id, question_text, question_type, options,
	                                 min_scale, max_scale, scale_labels, is_active, release_date,
	                                 created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

	var minScale, maxScale sql.NullInt64
	if question.MinScale != nil {
		minScale = sql.NullInt64{Int64: int64(*question.MinScale), Valid: true}
	}
	if question.MaxScale != nil {
		maxScale = sql.NullInt64{Int64: int64(*question.MaxScale), Valid: true}
	}
	var labels models.JSONMap
	if question.ScaleLabels != nil {
		labels = models.JSONMap{"min": question.ScaleLabels.Min, "max": question.ScaleLabels.Max}
	}

	_, err := q.ExecContext(ctx, query,
		question.ID,
		question.CategoryID,
		question.Text,
		string(question.Type),
		models.StringSlice(question.Options),
		minScale,
		maxScale,
		labels,
		question.IsActive,
		question.ReleaseDate,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}
