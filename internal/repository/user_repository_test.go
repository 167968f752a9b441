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
)

// setupUserTestDB creates a new sqlx.DB instance and sqlmock for user repository testing.
func setupUserTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestToDomainUser(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	modelUser := &models.User{
		ID:        "user1",
		Email:     "test@example.com",
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: sql.NullTime{},
	}

	domainUser := toDomainUser(modelUser)
	assert.NotNil(t, domainUser)
	assert.Equal(t, modelUser.ID, domainUser.ID)
	assert.Equal(t, modelUser.Email, domainUser.Email)
	assert.True(t, modelUser.CreatedAt.Equal(domainUser.CreatedAt))
	assert.Nil(t, domainUser.DeletedAt)

	deletedTime := now.Add(-time.Hour)
	modelUser.DeletedAt = sql.NullTime{Time: deletedTime, Valid: true}
	domainUser = toDomainUser(modelUser)
	assert.NotNil(t, domainUser.DeletedAt)
	assert.True(t, deletedTime.Equal(*domainUser.DeletedAt))

	assert.Nil(t, toDomainUser(nil))
}

func TestSQLXUserRepository_GetUserByID_Success(t *testing.T) {
	db, mock := setupUserTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	userID := "user-test-id"
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "email", "created_at", "updated_at", "deleted_at"}).
		AddRow(userID, "test@example.com", now, now, nil)

	mock.ExpectQuery(`SELECT id, email, created_at, updated_at, deleted_at\s+FROM users WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs(userID).
		WillReturnRows(rows)

	domainUser, err := repo.GetUserByID(context.Background(), userID)

	assert.NoError(t, err)
	assert.NotNil(t, domainUser)
	assert.Equal(t, userID, domainUser.ID)
	assert.Equal(t, "test@example.com", domainUser.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByID_NotFound(t *testing.T) {
	db, mock := setupUserTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs("non-existent-id").
		WillReturnError(sql.ErrNoRows)

	domainUser, err := repo.GetUserByID(context.Background(), "non-existent-id")

	assert.NoError(t, err, "Expected no error from adapter when record not found")
	assert.Nil(t, domainUser, "Expected nil user for not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByEmail_LowercasesLookup(t *testing.T) {
	db, mock := setupUserTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "created_at", "updated_at", "deleted_at"}).
		AddRow("user1", "mixed@example.com", now, now, nil)

	mock.ExpectQuery(`FROM users WHERE email = \$1 AND deleted_at IS NULL`).
		WithArgs("mixed@example.com").
		WillReturnRows(rows)

	domainUser, err := repo.GetUserByEmail(context.Background(), "Mixed@Example.COM")

	assert.NoError(t, err)
	assert.NotNil(t, domainUser)
	assert.Equal(t, "user1", domainUser.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_CreateUser(t *testing.T) {
	db, mock := setupUserTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("user1", "new@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{ID: "user1", Email: "New@Example.com"}
	err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
