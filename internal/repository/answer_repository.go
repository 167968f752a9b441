package repository

import (
	"context"
	"fmt"
	"time"

	"pairquiz/internal/domain"
	"pairquiz/internal/util"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sqlxAnswerRepository implements domain.AnswerRepository using sqlx.
// Answer queries vary by context (solo rows carry a NULL couple_id,
// couple rows carry the couple id), so they are built with squirrel
// instead of hand-assembled SQL fragments.
type sqlxAnswerRepository struct {
	db *sqlx.DB
}

// NewSQLXAnswerRepository creates a new instance of sqlxAnswerRepository.
func NewSQLXAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db}
}

// contextFilter selects the answer rows belonging to one quiz context.
// squirrel renders a nil value as IS NULL, which is exactly the solo
// context.
func contextFilter(coupleID *string) sq.Eq {
	if coupleID == nil {
		return sq.Eq{"couple_id": nil}
	}
	return sq.Eq{"couple_id": *coupleID}
}

// UpsertAnswers writes the batch in a single multi-row statement. The
// unique (user_id, question_id, couple_id) triple treats NULLs as equal,
// so re-answering in either context updates in place instead of
// duplicating.
func (r *sqlxAnswerRepository) UpsertAnswers(ctx context.Context, answers []*domain.Answer) (int, error) {
	if len(answers) == 0 {
		return 0, nil
	}
	q := GetExecutor(ctx, r.db)
	now := time.Now()

	builder := psql.Insert("user_answers").
		Columns("id", "user_id", "question_id", "couple_id", "answer", "created_at", "updated_at")
	for _, a := range answers {
		builder = builder.Values(a.ID, a.UserID, a.QuestionID, util.PtrToNullString(a.CoupleID), a.Answer, now, now)
	}
	builder = builder.Suffix(
		`ON CONFLICT (user_id, question_id, couple_id)
		 DO UPDATE SET answer = EXCLUDED.answer, updated_at = EXCLUDED.updated_at`)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build upsert: %w", err)
	}
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert answers: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read upsert result: %w", err)
	}
	return int(affected), nil
}

// CountAnsweredInSet counts the user's answers in the context whose
// question id is in questionIDs.
func (r *sqlxAnswerRepository) CountAnsweredInSet(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	q := GetExecutor(ctx, r.db)

	query, args, err := psql.Select("COUNT(*)").
		From("user_answers").
		Where(sq.Eq{"user_id": userID}).
		Where(contextFilter(coupleID)).
		Where(sq.Eq{"question_id": questionIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var count int
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return count, nil
}

// GetAnsweredQuestionIDs returns the distinct question ids the user
// answered in the context, restricted to questionIDs.
func (r *sqlxAnswerRepository) GetAnsweredQuestionIDs(ctx context.Context, userID string, coupleID *string, questionIDs []string) ([]string, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	q := GetExecutor(ctx, r.db)

	query, args, err := psql.Select("DISTINCT question_id").
		From("user_answers").
		Where(sq.Eq{"user_id": userID}).
		Where(contextFilter(coupleID)).
		Where(sq.Eq{"question_id": questionIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question id query: %w", err)
	}

	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get answered question ids: %w", err)
	}
	return ids, nil
}

// GetAnswersForCouple returns both partners' rows for the question set.
func (r *sqlxAnswerRepository) GetAnswersForCouple(ctx context.Context, coupleID string, questionIDs []string) ([]*domain.ComparisonAnswer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	q := GetExecutor(ctx, r.db)

	query, args, err := psql.Select("user_id", "question_id", "answer").
		From("user_answers").
		Where(sq.Eq{"couple_id": coupleID}).
		Where(sq.Eq{"question_id": questionIDs}).
		OrderBy("question_id", "user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comparison query: %w", err)
	}

	var rows []struct {
		UserID     string `db:"user_id"`
		QuestionID string `db:"question_id"`
		Answer     string `db:"answer"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get couple answers: %w", err)
	}

	answers := make([]*domain.ComparisonAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, &domain.ComparisonAnswer{
			UserID:     row.UserID,
			QuestionID: row.QuestionID,
			Answer:     row.Answer,
		})
	}
	return answers, nil
}

// DeleteAnswers removes answer rows for the question set. A nil coupleID
// deletes only userID's solo rows; a non-nil coupleID deletes every
// member's rows for that couple.
func (r *sqlxAnswerRepository) DeleteAnswers(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	q := GetExecutor(ctx, r.db)

	builder := psql.Delete("user_answers").Where(sq.Eq{"question_id": questionIDs})
	if coupleID == nil {
		builder = builder.Where(sq.Eq{"user_id": userID, "couple_id": nil})
	} else {
		builder = builder.Where(sq.Eq{"couple_id": *coupleID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete answers: %w", err)
	}
	return result.RowsAffected()
}
