package models

import (
	"database/sql"
	"time"
)

// QuizCategory represents a quiz_categories row.
type QuizCategory struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Icon        sql.NullString `db:"icon"`
	Color       sql.NullString `db:"color"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Question represents a questions row.
type Question struct {
	ID           string        `db:"id"`
	CategoryID   string        `db:"category_id"`
	Text         string        `db:"question_text"`
	QuestionType string        `db:"question_type"`
	Options      StringSlice   `db:"options"`
	MinScale     sql.NullInt64 `db:"min_scale"`
	MaxScale     sql.NullInt64 `db:"max_scale"`
	ScaleLabels  JSONMap       `db:"scale_labels"`
	IsActive     bool          `db:"is_active"`
	ReleaseDate  time.Time     `db:"release_date"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// UserAnswer represents a user_answers row. The
// (user_id, question_id, couple_id) triple is unique with NULLs not
// distinct, which is what makes resubmission an overwrite.
type UserAnswer struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	QuestionID string         `db:"question_id"`
	CoupleID   sql.NullString `db:"couple_id"`
	Answer     string         `db:"answer"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}
