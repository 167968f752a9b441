package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeScale          QuestionType = "scale"
	TypeText           QuestionType = "text"
	TypeYesNo          QuestionType = "yes_no"
)

// Category groups questions in the quiz catalog.
type Category struct {
	ID          string
	Name        string
	Icon        string
	Color       string
	Description string
	Questions   []*Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the category.
func (c *Category) Validate() error {
	if c.Name == "" {
		return NewInvalidInputError("name is required")
	}
	return nil
}

// ScaleLabels annotates the ends of a scale question.
type ScaleLabels struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Question belongs to a category and gates its own visibility through
// the is_active flag and a release date.
type Question struct {
	ID          string
	CategoryID  string
	Text        string
	Type        QuestionType
	Options     []string
	MinScale    *int
	MaxScale    *int
	ScaleLabels *ScaleLabels
	IsActive    bool
	ReleaseDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActiveAt reports whether the question is visible at the given instant.
func (q *Question) ActiveAt(now time.Time) bool {
	return q.IsActive && !q.ReleaseDate.After(now)
}

// Validate validates the question.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if q.CategoryID == "" {
		return NewInvalidInputError("category id is required")
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) == 0 {
			return NewInvalidInputError("multiple choice question needs options")
		}
	case TypeScale:
		if q.MinScale == nil || q.MaxScale == nil {
			return NewInvalidInputError("scale question needs min and max bounds")
		}
		if *q.MinScale >= *q.MaxScale {
			return NewInvalidInputError("scale min must be below max")
		}
	case TypeText, TypeYesNo:
	default:
		return NewInvalidInputError(fmt.Sprintf("unknown question type: %s", q.Type))
	}
	return nil
}

// AnswerValueKind tags the boundary representation of an answer value.
type AnswerValueKind string

const (
	ValueScale  AnswerValueKind = "scale"
	ValueText   AnswerValueKind = "text"
	ValueChoice AnswerValueKind = "choice"
	ValueYesNo  AnswerValueKind = "yesno"
)

// AnswerValue is the tagged union answers arrive as. Scale answers carry
// a number, everything else a string; Normalize folds both into the one
// canonical stored representation.
type AnswerValue struct {
	Kind   AnswerValueKind
	Number int
	Text   string
}

// Normalize returns the canonical storage form: numeric scale answers are
// stringified, all other kinds pass through.
func (v AnswerValue) Normalize() string {
	if v.Kind == ValueScale {
		return strconv.Itoa(v.Number)
	}
	return v.Text
}

// AnswerSubmission is one (question, value) pair in a save batch.
type AnswerSubmission struct {
	QuestionID string
	Value      AnswerValue
}

// Answer is one persisted row. The (UserID, QuestionID, CoupleID) triple
// is unique, with a nil CoupleID meaning solo mode; resubmission
// overwrites, never duplicates.
type Answer struct {
	ID         string
	UserID     string
	QuestionID string
	CoupleID   *string
	Answer     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CategoryProgress is derived per (user, context, category); it is never
// stored, so it cannot drift from the answer rows it is computed from.
type CategoryProgress struct {
	CategoryID        string
	CategoryName      string
	QuestionsAnswered int
	TotalQuestions    int
	Percentage        int
}

// CategoryStatus is the derived per-category quiz state.
type CategoryStatus string

const (
	StatusNotStarted      CategoryStatus = "not_started"
	StatusInProgress      CategoryStatus = "in_progress"
	StatusSoloComplete    CategoryStatus = "solo_complete"
	StatusAwaitingPartner CategoryStatus = "awaiting_partner"
	StatusReadyToCompare  CategoryStatus = "ready_to_compare"
)

// DeriveCategoryStatus composes the progress primitives into the
// per-category state machine. inCouple selects the couple branch;
// bothComplete is only consulted there.
func DeriveCategoryStatus(progress CategoryProgress, inCouple, bothComplete bool) CategoryStatus {
	if inCouple && bothComplete {
		// Covers the vacuous zero-question category too: an empty
		// category is complete for both partners by definition.
		return StatusReadyToCompare
	}
	if progress.TotalQuestions == 0 || progress.QuestionsAnswered == 0 {
		return StatusNotStarted
	}
	if progress.QuestionsAnswered < progress.TotalQuestions {
		return StatusInProgress
	}
	if !inCouple {
		return StatusSoloComplete
	}
	return StatusAwaitingPartner
}

// ComparisonAnswer pairs one stored answer with its author, used once a
// category unlocks for comparison.
type ComparisonAnswer struct {
	UserID     string
	QuestionID string
	Answer     string
}

// QuestionRepository defines the interface for catalog persistence.
type QuestionRepository interface {
	GetCategories(ctx context.Context) ([]*Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*Category, error)
	// GetActiveQuestionIDs returns ids of questions in the category that
	// are active at the given instant.
	GetActiveQuestionIDs(ctx context.Context, categoryID string, now time.Time) ([]string, error)
	// GetQuestionIDs returns all question ids in the category regardless
	// of visibility; reset must clear answers to retired questions too.
	GetQuestionIDs(ctx context.Context, categoryID string) ([]string, error)
	GetActiveQuestionsByCategory(ctx context.Context, categoryID string, now time.Time) ([]*Question, error)
	SaveCategory(ctx context.Context, category *Category) error
	SaveQuestion(ctx context.Context, question *Question) error
}

// AnswerRepository defines the interface for answer persistence. coupleID
// is nil for solo context throughout.
type AnswerRepository interface {
	// UpsertAnswers writes the batch keyed by the unique
	// (user_id, question_id, couple_id) triple in one transaction-scoped
	// statement set: all rows land or none do.
	UpsertAnswers(ctx context.Context, answers []*Answer) (int, error)

	// CountAnsweredInSet counts the user's answers in the context whose
	// question id is in questionIDs.
	CountAnsweredInSet(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int, error)

	// GetAnsweredQuestionIDs returns the distinct question ids the user
	// answered in the context, restricted to questionIDs.
	GetAnsweredQuestionIDs(ctx context.Context, userID string, coupleID *string, questionIDs []string) ([]string, error)

	// GetAnswersForCouple returns both partners' rows for the question set.
	GetAnswersForCouple(ctx context.Context, coupleID string, questionIDs []string) ([]*ComparisonAnswer, error)

	// DeleteAnswers removes answer rows for the question set. A nil
	// coupleID deletes only userID's solo rows; a non-nil coupleID
	// deletes every member's rows for that couple.
	DeleteAnswers(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int64, error)
}

// TransactionManager runs fn inside one store transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
