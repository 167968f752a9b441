package service

import (
	"context"
	"time"

	"pairquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- MockProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) EnsureProfile(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetProfilesByIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// --- MockCoupleRepository ---
type MockCoupleRepository struct {
	mock.Mock
}

func (m *MockCoupleRepository) CreatePendingCouple(ctx context.Context, couple *domain.Couple) error {
	args := m.Called(ctx, couple)
	return args.Error(0)
}

func (m *MockCoupleRepository) DeletePendingCouplesByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoupleRepository) ClaimCode(ctx context.Context, claimerID, code string) (*domain.ClaimResult, error) {
	args := m.Called(ctx, claimerID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimResult), args.Error(1)
}

func (m *MockCoupleRepository) GetLinkedCouplesByUser(ctx context.Context, userID string) ([]*domain.Couple, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Couple), args.Error(1)
}

func (m *MockCoupleRepository) GetCoupleByID(ctx context.Context, coupleID string) (*domain.Couple, error) {
	args := m.Called(ctx, coupleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Couple), args.Error(1)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockQuestionRepository) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockQuestionRepository) GetActiveQuestionIDs(ctx context.Context, categoryID string, now time.Time) ([]string, error) {
	args := m.Called(ctx, categoryID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionIDs(ctx context.Context, categoryID string) ([]string, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) GetActiveQuestionsByCategory(ctx context.Context, categoryID string, now time.Time) ([]*domain.Question, error) {
	args := m.Called(ctx, categoryID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SaveCategory(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

// --- MockAnswerRepository ---
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) UpsertAnswers(ctx context.Context, answers []*domain.Answer) (int, error) {
	args := m.Called(ctx, answers)
	return args.Int(0), args.Error(1)
}

func (m *MockAnswerRepository) CountAnsweredInSet(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int, error) {
	args := m.Called(ctx, userID, coupleID, questionIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockAnswerRepository) GetAnsweredQuestionIDs(ctx context.Context, userID string, coupleID *string, questionIDs []string) ([]string, error) {
	args := m.Called(ctx, userID, coupleID, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAnswerRepository) GetAnswersForCouple(ctx context.Context, coupleID string, questionIDs []string) ([]*domain.ComparisonAnswer, error) {
	args := m.Called(ctx, coupleID, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComparisonAnswer), args.Error(1)
}

func (m *MockAnswerRepository) DeleteAnswers(ctx context.Context, userID string, coupleID *string, questionIDs []string) (int64, error) {
	args := m.Called(ctx, userID, coupleID, questionIDs)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockTransactionManager ---
// Runs fn inline so the service under test sees the same context.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockMailer ---
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}
