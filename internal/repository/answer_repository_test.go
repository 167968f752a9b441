package repository

import (
	"context"
	"testing"

	"pairquiz/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAnswerTestDB creates a new sqlx.DB instance and sqlmock for answer repository testing.
func setupAnswerTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestSQLXAnswerRepository_UpsertAnswers(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	coupleID := "couple1"
	answers := []*domain.Answer{
		{ID: "a1", UserID: "alice", QuestionID: "q1", CoupleID: &coupleID, Answer: "4"},
		{ID: "a2", UserID: "alice", QuestionID: "q2", CoupleID: &coupleID, Answer: "yes"},
	}

	mock.ExpectExec(`INSERT INTO user_answers .+ ON CONFLICT \(user_id, question_id, couple_id\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	saved, err := repo.UpsertAnswers(context.Background(), answers)

	assert.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_UpsertAnswers_EmptyBatch(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	saved, err := repo.UpsertAnswers(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_CountAnsweredInSet_Solo(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	// Solo context filters on couple_id IS NULL, not a placeholder.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_answers WHERE user_id = \$1 AND couple_id IS NULL AND question_id IN \(\$2,\$3\)`).
		WithArgs("alice", "q1", "q2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountAnsweredInSet(context.Background(), "alice", nil, []string{"q1", "q2"})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_CountAnsweredInSet_Couple(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	coupleID := "couple1"
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_answers WHERE user_id = \$1 AND couple_id = \$2 AND question_id IN \(\$3\)`).
		WithArgs("alice", coupleID, "q1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountAnsweredInSet(context.Background(), "alice", &coupleID, []string{"q1"})

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_CountAnsweredInSet_EmptyQuestionSet(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	count, err := repo.CountAnsweredInSet(context.Background(), "alice", nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_GetAnswersForCouple(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "question_id", "answer"}).
		AddRow("alice", "q1", "4").
		AddRow("bob", "q1", "2")

	mock.ExpectQuery(`SELECT user_id, question_id, answer FROM user_answers WHERE couple_id = \$1`).
		WithArgs("couple1", "q1").
		WillReturnRows(rows)

	answers, err := repo.GetAnswersForCouple(context.Background(), "couple1", []string{"q1"})

	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "alice", answers[0].UserID)
	assert.Equal(t, "bob", answers[1].UserID)
	assert.Equal(t, "q1", answers[0].QuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_DeleteAnswers_Solo(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	// Solo reset touches only the caller's NULL-context rows.
	mock.ExpectExec(`DELETE FROM user_answers WHERE question_id IN \(\$1,\$2\) AND couple_id IS NULL AND user_id = \$3`).
		WithArgs("q1", "q2", "alice").
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteAnswers(context.Background(), "alice", nil, []string{"q1", "q2"})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_DeleteAnswers_Couple(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	// Couple reset removes both partners' rows for the category.
	coupleID := "couple1"
	mock.ExpectExec(`DELETE FROM user_answers WHERE question_id IN \(\$1\) AND couple_id = \$2`).
		WithArgs("q1", coupleID).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteAnswers(context.Background(), "alice", &coupleID, []string{"q1"})

	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXAnswerRepository_GetAnsweredQuestionIDs(t *testing.T) {
	db, mock := setupAnswerTestDB(t)
	repo := NewSQLXAnswerRepository(db)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"question_id"}).AddRow("q1").AddRow("q3")

	mock.ExpectQuery(`SELECT DISTINCT question_id FROM user_answers WHERE user_id = \$1 AND couple_id IS NULL AND question_id IN \(\$2,\$3,\$4\)`).
		WithArgs("alice", "q1", "q2", "q3").
		WillReturnRows(rows)

	ids, err := repo.GetAnsweredQuestionIDs(context.Background(), "alice", nil, []string{"q1", "q2", "q3"})

	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
