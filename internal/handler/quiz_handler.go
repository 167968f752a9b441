package handler

import (
	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
	"pairquiz/internal/service"
	"pairquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles catalog, answer and progress requests.
type QuizHandler struct {
	quizService service.QuizService
	validator   *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance.
func NewQuizHandler(quizService service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{quizService: quizService, validator: validator}
}

// GetQuizData returns every category with its active questions.
func (h *QuizHandler) GetQuizData(c *fiber.Ctx) error {
	resp, err := h.quizService.GetQuizData(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SaveAnswers persists a batch of answers for the caller's context.
func (h *QuizHandler) SaveAnswers(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.SaveAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateSaveAnswersRequest(&req); len(errs) > 0 {
		return errs
	}

	submissions := make([]domain.AnswerSubmission, 0, len(req.Answers))
	for _, item := range req.Answers {
		submissions = append(submissions, domain.AnswerSubmission{
			QuestionID: item.QuestionID,
			Value: domain.AnswerValue{
				Kind:   domain.AnswerValueKind(item.Kind),
				Number: item.Number,
				Text:   item.Value,
			},
		})
	}

	resp, err := h.quizService.SaveAnswers(c.Context(), userID, req.CoupleID, submissions)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetProgress returns the per-category progress map for the caller's
// context. The couple context is selected with the couple_id query param.
func (h *QuizHandler) GetProgress(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.quizService.GetQuizProgress(c.Context(), userID, coupleIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetStatus returns the derived state for one category.
func (h *QuizHandler) GetStatus(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	categoryID := c.Query("category_id")
	if categoryID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category_id is required")
	}

	resp, err := h.quizService.GetCategoryStatus(c.Context(), userID, coupleIDParam(c), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetComparison returns both partners' answers for a completed category.
func (h *QuizHandler) GetComparison(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	coupleID := c.Query("couple_id")
	categoryID := c.Query("category_id")
	if coupleID == "" || categoryID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "couple_id and category_id are required")
	}

	resp, err := h.quizService.GetComparisonAnswers(c.Context(), userID, coupleID, categoryID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ResetAnswers clears one category for the caller's context.
func (h *QuizHandler) ResetAnswers(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.ResetAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateResetAnswersRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.quizService.ResetQuizAnswers(c.Context(), userID, req.CoupleID, req.CategoryID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// coupleIDParam reads the optional couple_id query param; absence means
// the solo context.
func coupleIDParam(c *fiber.Ctx) *string {
	if v := c.Query("couple_id"); v != "" {
		return &v
	}
	return nil
}
