package dto

// CategoryResponse is one catalog category with its active questions.
type CategoryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Icon        string             `json:"icon,omitempty"`
	Color       string             `json:"color,omitempty"`
	Description string             `json:"description,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
}

// QuestionResponse is one active question as delivered to clients.
type QuestionResponse struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Type        string            `json:"type"`
	Options     []string          `json:"options,omitempty"`
	MinScale    *int              `json:"min_scale,omitempty"`
	MaxScale    *int              `json:"max_scale,omitempty"`
	ScaleLabels map[string]string `json:"scale_labels,omitempty"`
}

// QuizDataResponse is the full catalog payload.
type QuizDataResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// AnswerItem is one answer in a save batch. Kind selects the value field:
// scale answers use Number, every other kind uses Value.
type AnswerItem struct {
	QuestionID string `json:"question_id" validate:"required"`
	Kind       string `json:"kind" validate:"required"`
	Value      string `json:"value,omitempty"`
	Number     int    `json:"number,omitempty"`
}

// SaveAnswersRequest submits a batch of answers for one context.
// A null couple id means solo mode.
type SaveAnswersRequest struct {
	CoupleID *string      `json:"couple_id"`
	Answers  []AnswerItem `json:"answers" validate:"required"`
}

// SaveAnswersResponse reports how many rows were persisted.
type SaveAnswersResponse struct {
	Saved int `json:"saved"`
}

// CategoryProgressResponse is the derived progress for one category.
type CategoryProgressResponse struct {
	CategoryID        string `json:"category_id"`
	CategoryName      string `json:"category_name,omitempty"`
	QuestionsAnswered int    `json:"questions_answered"`
	TotalQuestions    int    `json:"total_questions"`
	Percentage        int    `json:"percentage"`
}

// QuizProgressResponse maps category id to progress.
type QuizProgressResponse struct {
	Progress map[string]CategoryProgressResponse `json:"progress"`
}

// QuizStatusResponse is the derived per-category state for one context.
type QuizStatusResponse struct {
	CategoryID    string `json:"category_id"`
	Status        string `json:"status"`
	BothCompleted bool   `json:"both_completed"`
}

// ComparisonAnswerItem is one partner answer in a comparison payload.
type ComparisonAnswerItem struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// ComparisonResponse carries both partners' answers for a category.
type ComparisonResponse struct {
	CategoryID string                 `json:"category_id"`
	Answers    []ComparisonAnswerItem `json:"answers"`
}

// ResetAnswersRequest clears a category for a context.
type ResetAnswersRequest struct {
	CategoryID string  `json:"category_id" validate:"required"`
	CoupleID   *string `json:"couple_id"`
}

// ResetAnswersResponse reports how many rows were deleted; zero is a
// valid "nothing to reset".
type ResetAnswersResponse struct {
	Deleted int64 `json:"deleted"`
}
