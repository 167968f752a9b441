package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pairquiz/internal/cache"
	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
	"pairquiz/internal/logger"
	"pairquiz/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// quizDataCacheTTL bounds how stale the cached catalog may get after a
// question's release date passes.
const quizDataCacheTTL = 5 * time.Minute

// QuizService defines the interface for catalog, answer and progress
// operations. Every context-sensitive operation takes coupleID as a
// pointer; nil selects the caller's solo context.
type QuizService interface {
	GetQuizData(ctx context.Context) (*dto.QuizDataResponse, error)
	SaveAnswers(ctx context.Context, userID string, coupleID *string, submissions []domain.AnswerSubmission) (*dto.SaveAnswersResponse, error)
	GetQuizProgress(ctx context.Context, userID string, coupleID *string) (*dto.QuizProgressResponse, error)
	GetCategoryProgress(ctx context.Context, userID string, coupleID *string, categoryID string) (*domain.CategoryProgress, error)
	IsQuizCompletedByBothPartners(ctx context.Context, coupleID, categoryID string) (bool, error)
	GetCategoryStatus(ctx context.Context, userID string, coupleID *string, categoryID string) (*dto.QuizStatusResponse, error)
	GetComparisonAnswers(ctx context.Context, userID, coupleID, categoryID string) (*dto.ComparisonResponse, error)
	ResetQuizAnswers(ctx context.Context, userID string, coupleID *string, categoryID string) (*dto.ResetAnswersResponse, error)
}

type quizServiceImpl struct {
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	coupleRepo   domain.CoupleRepository
	txManager    domain.TransactionManager
	cache        domain.Cache
	now          func() time.Time
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	questionRepo domain.QuestionRepository,
	answerRepo domain.AnswerRepository,
	coupleRepo domain.CoupleRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
) QuizService {
	return &quizServiceImpl{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		coupleRepo:   coupleRepo,
		txManager:    txManager,
		cache:        cacheClient,
		now:          time.Now,
	}
}

// GetQuizData returns every category with its currently active questions.
// The assembled payload is cached whole; a cache failure only costs the
// round trip to the store.
func (s *quizServiceImpl) GetQuizData(ctx context.Context) (*dto.QuizDataResponse, error) {
	appLogger := logger.Get()
	key := cache.QuizDataKey()

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuizDataResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		appLogger.Warn("Discarding malformed cached quiz data", zap.String("key", key))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		appLogger.Warn("Quiz data cache read failed", zap.Error(err))
	}

	categories, err := s.questionRepo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	now := s.now()
	resp := &dto.QuizDataResponse{Categories: make([]dto.CategoryResponse, 0, len(categories))}
	for _, c := range categories {
		questions, err := s.questionRepo.GetActiveQuestionsByCategory(ctx, c.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions for category %s: %w", c.ID, err)
		}
		resp.Categories = append(resp.Categories, toCategoryResponse(c, questions))
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), quizDataCacheTTL); err != nil {
			appLogger.Warn("Quiz data cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// SaveAnswers validates and persists the batch in one transaction: all
// rows land or none do. The empty batch is rejected before any store
// work, so it cannot be mistaken for a successful save.
func (s *quizServiceImpl) SaveAnswers(ctx context.Context, userID string, coupleID *string, submissions []domain.AnswerSubmission) (*dto.SaveAnswersResponse, error) {
	if len(submissions) == 0 {
		return nil, domain.NewInvalidInputError("answers batch must not be empty")
	}
	if coupleID != nil {
		if err := s.requireMembership(ctx, userID, *coupleID); err != nil {
			return nil, err
		}
	}

	answers := make([]*domain.Answer, 0, len(submissions))
	for _, sub := range submissions {
		if sub.QuestionID == "" {
			return nil, domain.NewMissingFieldError("question_id")
		}
		answers = append(answers, &domain.Answer{
			ID:         util.NewULID(),
			UserID:     userID,
			QuestionID: sub.QuestionID,
			CoupleID:   coupleID,
			Answer:     sub.Value.Normalize(),
		})
	}

	var saved int
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.answerRepo.UpsertAnswers(txCtx, answers)
		return err
	})
	if err != nil {
		return nil, domain.NewSaveFailedError(0, err)
	}

	logger.Get().Info("Answers saved",
		zap.String("userID", userID),
		zap.Int("count", saved),
		zap.Bool("coupleMode", coupleID != nil))
	return &dto.SaveAnswersResponse{Saved: saved}, nil
}

// GetCategoryProgress computes one category's progress for the context.
// Progress counts only currently active questions; answers to retired
// ones stay stored but stop counting.
func (s *quizServiceImpl) GetCategoryProgress(ctx context.Context, userID string, coupleID *string, categoryID string) (*domain.CategoryProgress, error) {
	category, err := s.questionRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, domain.NewInvalidCategoryError(categoryID)
	}
	return s.progressFor(ctx, userID, coupleID, category)
}

func (s *quizServiceImpl) progressFor(ctx context.Context, userID string, coupleID *string, category *domain.Category) (*domain.CategoryProgress, error) {
	questionIDs, err := s.questionRepo.GetActiveQuestionIDs(ctx, category.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load active questions for %s: %w", category.ID, err)
	}

	progress := &domain.CategoryProgress{
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		TotalQuestions: len(questionIDs),
	}
	if len(questionIDs) == 0 {
		return progress, nil
	}

	answered, err := s.answerRepo.CountAnsweredInSet(ctx, userID, coupleID, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers for %s: %w", category.ID, err)
	}
	progress.QuestionsAnswered = answered
	progress.Percentage = util.Percentage(answered, len(questionIDs))
	return progress, nil
}

// GetQuizProgress computes progress for every category concurrently. A
// failing category degrades to zero progress with a warning instead of
// failing the whole map; a wrong zero here is recoverable, a hard error
// for the entire screen is not.
func (s *quizServiceImpl) GetQuizProgress(ctx context.Context, userID string, coupleID *string) (*dto.QuizProgressResponse, error) {
	appLogger := logger.Get()
	categories, err := s.questionRepo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	results := make([]*domain.CategoryProgress, len(categories))
	g, gCtx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			progress, err := s.progressFor(gCtx, userID, coupleID, category)
			if err != nil {
				appLogger.Warn("Category progress degraded to zero",
					zap.String("categoryID", category.ID), zap.Error(err))
				progress = &domain.CategoryProgress{
					CategoryID:   category.ID,
					CategoryName: category.Name,
				}
			}
			results[i] = progress
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.QuizProgressResponse{Progress: make(map[string]dto.CategoryProgressResponse, len(results))}
	for _, p := range results {
		resp.Progress[p.CategoryID] = dto.CategoryProgressResponse{
			CategoryID:        p.CategoryID,
			CategoryName:      p.CategoryName,
			QuestionsAnswered: p.QuestionsAnswered,
			TotalQuestions:    p.TotalQuestions,
			Percentage:        p.Percentage,
		}
	}
	return resp, nil
}

// IsQuizCompletedByBothPartners reports whether both members of the
// couple answered every active question in the category. A category with
// no active questions is vacuously complete; an unlinked or unknown
// couple is never complete.
func (s *quizServiceImpl) IsQuizCompletedByBothPartners(ctx context.Context, coupleID, categoryID string) (bool, error) {
	couple, err := s.coupleRepo.GetCoupleByID(ctx, coupleID)
	if err != nil {
		return false, fmt.Errorf("failed to load couple: %w", err)
	}
	if couple == nil || !couple.IsLinked() {
		return false, nil
	}

	questionIDs, err := s.questionRepo.GetActiveQuestionIDs(ctx, categoryID, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to load active questions: %w", err)
	}
	if len(questionIDs) == 0 {
		return true, nil
	}

	for _, memberID := range []string{couple.User1ID, *couple.User2ID} {
		answered, err := s.answerRepo.CountAnsweredInSet(ctx, memberID, &coupleID, questionIDs)
		if err != nil {
			return false, fmt.Errorf("failed to count answers for member: %w", err)
		}
		if answered < len(questionIDs) {
			return false, nil
		}
	}
	return true, nil
}

// GetCategoryStatus derives the per-category state for the context.
func (s *quizServiceImpl) GetCategoryStatus(ctx context.Context, userID string, coupleID *string, categoryID string) (*dto.QuizStatusResponse, error) {
	progress, err := s.GetCategoryProgress(ctx, userID, coupleID, categoryID)
	if err != nil {
		return nil, err
	}

	bothComplete := false
	if coupleID != nil {
		if err := s.requireMembership(ctx, userID, *coupleID); err != nil {
			return nil, err
		}
		bothComplete, err = s.IsQuizCompletedByBothPartners(ctx, *coupleID, categoryID)
		if err != nil {
			return nil, err
		}
	}

	status := domain.DeriveCategoryStatus(*progress, coupleID != nil, bothComplete)
	return &dto.QuizStatusResponse{
		CategoryID:    categoryID,
		Status:        string(status),
		BothCompleted: bothComplete,
	}, nil
}

// GetComparisonAnswers returns both partners' answers for the category,
// available only once both completed it. Until then the payload stays
// sealed so neither partner can peek at the other's answers mid-quiz.
func (s *quizServiceImpl) GetComparisonAnswers(ctx context.Context, userID, coupleID, categoryID string) (*dto.ComparisonResponse, error) {
	if err := s.requireMembership(ctx, userID, coupleID); err != nil {
		return nil, err
	}
	category, err := s.questionRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, domain.NewInvalidCategoryError(categoryID)
	}

	complete, err := s.IsQuizCompletedByBothPartners(ctx, coupleID, categoryID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, domain.NewComparisonLockedError(categoryID)
	}

	questionIDs, err := s.questionRepo.GetActiveQuestionIDs(ctx, categoryID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load active questions: %w", err)
	}
	answers, err := s.answerRepo.GetAnswersForCouple(ctx, coupleID, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load couple answers: %w", err)
	}

	resp := &dto.ComparisonResponse{
		CategoryID: categoryID,
		Answers:    make([]dto.ComparisonAnswerItem, 0, len(answers)),
	}
	for _, a := range answers {
		resp.Answers = append(resp.Answers, dto.ComparisonAnswerItem{
			UserID:     a.UserID,
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}
	return resp, nil
}

// ResetQuizAnswers clears the category for the context. Couple mode
// removes both partners' rows; solo mode only the caller's. Reset spans
// every question in the category, retired ones included, so a later
// re-activation cannot resurrect stale answers.
func (s *quizServiceImpl) ResetQuizAnswers(ctx context.Context, userID string, coupleID *string, categoryID string) (*dto.ResetAnswersResponse, error) {
	category, err := s.questionRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, domain.NewInvalidCategoryError(categoryID)
	}
	if coupleID != nil {
		if err := s.requireMembership(ctx, userID, *coupleID); err != nil {
			return nil, err
		}
	}

	questionIDs, err := s.questionRepo.GetQuestionIDs(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for reset: %w", err)
	}

	var deleted int64
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.answerRepo.DeleteAnswers(txCtx, userID, coupleID, questionIDs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset answers: %w", err)
	}

	logger.Get().Info("Quiz answers reset",
		zap.String("userID", userID),
		zap.String("categoryID", categoryID),
		zap.Bool("coupleMode", coupleID != nil),
		zap.Int64("deleted", deleted))
	return &dto.ResetAnswersResponse{Deleted: deleted}, nil
}

// requireMembership rejects operations on couples the caller is not a
// member of. Unknown couples surface the same way, so the endpoint does
// not leak which couple ids exist.
func (s *quizServiceImpl) requireMembership(ctx context.Context, userID, coupleID string) error {
	couple, err := s.coupleRepo.GetCoupleByID(ctx, coupleID)
	if err != nil {
		return fmt.Errorf("failed to load couple: %w", err)
	}
	if couple == nil || (couple.User1ID != userID && (couple.User2ID == nil || *couple.User2ID != userID)) {
		return domain.NewNotFoundError(fmt.Sprintf("couple %s not found", coupleID))
	}
	return nil
}

func toCategoryResponse(c *domain.Category, questions []*domain.Question) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Icon:        c.Icon,
		Color:       c.Color,
		Description: c.Description,
		Questions:   make([]dto.QuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		item := dto.QuestionResponse{
			ID:       q.ID,
			Text:     q.Text,
			Type:     string(q.Type),
			Options:  q.Options,
			MinScale: q.MinScale,
			MaxScale: q.MaxScale,
		}
		if q.ScaleLabels != nil {
			item.ScaleLabels = map[string]string{"min": q.ScaleLabels.Min, "max": q.ScaleLabels.Max}
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp
}
