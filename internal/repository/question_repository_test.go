package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"pairquiz/internal/domain"
	"pairquiz/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupQuestionTestDB creates a new sqlx.DB instance and sqlmock for question repository testing.
func setupQuestionTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func TestToDomainQuestion_ScaleFields(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	modelQuestion := &models.Question{
		ID:           "q1",
		CategoryID:   "cat1",
		Text:         "How tidy do you like shared spaces to be?",
		QuestionType: "scale",
		MinScale:     nullInt64(1),
		MaxScale:     nullInt64(5),
		ScaleLabels:  models.JSONMap{"min": "Lived-in is fine", "max": "Spotless"},
		IsActive:     true,
		ReleaseDate:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	q := toDomainQuestion(modelQuestion)
	require.NotNil(t, q)
	assert.Equal(t, domain.TypeScale, q.Type)
	require.NotNil(t, q.MinScale)
	require.NotNil(t, q.MaxScale)
	assert.Equal(t, 1, *q.MinScale)
	assert.Equal(t, 5, *q.MaxScale)
	require.NotNil(t, q.ScaleLabels)
	assert.Equal(t, "Lived-in is fine", q.ScaleLabels.Min)
	assert.Equal(t, "Spotless", q.ScaleLabels.Max)
}

func TestGetActiveQuestionIDs_FiltersOnInstant(t *testing.T) {
	db, mock := setupQuestionTestDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id"}).AddRow("q1").AddRow("q2")
	mock.ExpectQuery(`SELECT id FROM questions\s+WHERE category_id = \$1 AND is_active = TRUE AND release_date <= \$2`).
		WithArgs("cat1", now).
		WillReturnRows(rows)

	ids, err := repo.GetActiveQuestionIDs(context.Background(), "cat1", now)
	assert.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestionIDs_IgnoresVisibility(t *testing.T) {
	db, mock := setupQuestionTestDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow("q1").AddRow("qRetired")
	mock.ExpectQuery(`SELECT id FROM questions WHERE category_id = \$1 ORDER BY release_date, id`).
		WithArgs("cat1").
		WillReturnRows(rows)

	ids, err := repo.GetQuestionIDs(context.Background(), "cat1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"q1", "qRetired"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoryByID_NotFound(t *testing.T) {
	db, mock := setupQuestionTestDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT id, name, icon, color, description, created_at, updated_at\s+FROM quiz_categories WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "color", "description", "created_at", "updated_at"}))

	category, err := repo.GetCategoryByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveQuestion_RejectsInvalidScaleBounds(t *testing.T) {
	db, _ := setupQuestionTestDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	minScale, maxScale := 5, 1
	question := &domain.Question{
		ID:         "q1",
		CategoryID: "cat1",
		Text:       "Broken scale",
		Type:       domain.TypeScale,
		MinScale:   &minScale,
		MaxScale:   &maxScale,
	}

	err := repo.SaveQuestion(context.Background(), question)
	assert.Error(t, err)
}

func TestSaveCategory_UpsertsOnName(t *testing.T) {
	db, mock := setupQuestionTestDB(t)
	defer db.Close()
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectExec(`INSERT INTO quiz_categories .+ ON CONFLICT \(name\) DO UPDATE`).
		WithArgs("cat1", "Daily Life", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveCategory(context.Background(), &domain.Category{ID: "cat1", Name: "Daily Life"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
