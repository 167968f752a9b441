package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pairquiz/internal/config"
	"pairquiz/internal/database"
	"pairquiz/internal/domain"
	"pairquiz/internal/logger"
	"pairquiz/internal/repository"
	"pairquiz/internal/util"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_questions.json"

// seedCategory mirrors one catalog entry of the seed file.
type seedCategory struct {
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Description string         `json:"description"`
	Questions   []seedQuestion `json:"questions"`
}

type seedQuestion struct {
	Text        string      `json:"text"`
	Type        string      `json:"type"`
	Options     []string    `json:"options,omitempty"`
	MinScale    *int        `json:"min_scale,omitempty"`
	MaxScale    *int        `json:"max_scale,omitempty"`
	ScaleLabels *seedLabels `json:"scale_labels,omitempty"`
	ReleaseDate string      `json:"release_date,omitempty"`
}

type seedLabels struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seedCategories []seedCategory
	if err := json.Unmarshal(byteValue, &seedCategories); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("categories", len(seedCategories)))

	questionRepo := repository.NewSQLXQuestionRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	for _, sc := range seedCategories {
		if err := seedOneCategory(ctx, txManager, questionRepo, log, sc); err != nil {
			log.Error("Error seeding category, transaction rolled back",
				zap.String("category", sc.Name), zap.Error(err))
		}
	}
	log.Info("Initial data seeding process completed.")
}

// seedOneCategory writes a category and its questions in one transaction.
// Re-running against an existing catalog updates the category's
// descriptive fields and appends any questions not yet present.
func seedOneCategory(
	ctx context.Context,
	txManager domain.TransactionManager,
	questionRepo domain.QuestionRepository,
	log *zap.Logger,
	sc seedCategory,
) error {
	return txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := questionRepo.GetCategories(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}

		var category *domain.Category
		for _, c := range existing {
			if c.Name == sc.Name {
				category = c
				break
			}
		}
		if category == nil {
			category = &domain.Category{
				ID:          util.NewULID(),
				Name:        sc.Name,
				Icon:        sc.Icon,
				Color:       sc.Color,
				Description: sc.Description,
			}
			log.Info("Creating category", zap.String("name", sc.Name), zap.String("id", category.ID))
		} else {
			category.Icon = sc.Icon
			category.Color = sc.Color
			category.Description = sc.Description
			log.Info("Category exists, refreshing fields", zap.String("name", sc.Name), zap.String("id", category.ID))
		}
		if err := questionRepo.SaveCategory(txCtx, category); err != nil {
			return fmt.Errorf("failed to save category %s: %w", sc.Name, err)
		}

		// Look far enough ahead that questions with future release dates
		// still count as present on a re-run.
		horizon := time.Now().AddDate(100, 0, 0)
		current, err := questionRepo.GetActiveQuestionsByCategory(txCtx, category.ID, horizon)
		if err != nil {
			return fmt.Errorf("failed to list questions for %s: %w", sc.Name, err)
		}
		known := make(map[string]bool)
		for _, q := range current {
			known[q.Text] = true
		}

		for _, sq := range sc.Questions {
			if known[sq.Text] {
				continue
			}
			question, err := toDomainQuestion(category.ID, sq)
			if err != nil {
				return fmt.Errorf("invalid seed question %q: %w", sq.Text, err)
			}
			if err := questionRepo.SaveQuestion(txCtx, question); err != nil {
				return fmt.Errorf("failed to save question %q: %w", sq.Text, err)
			}
		}
		return nil
	})
}

func toDomainQuestion(categoryID string, sq seedQuestion) (*domain.Question, error) {
	releaseDate := time.Now()
	if sq.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", sq.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("bad release_date %q: %w", sq.ReleaseDate, err)
		}
		releaseDate = parsed
	}

	question := &domain.Question{
		ID:          util.NewULID(),
		CategoryID:  categoryID,
		Text:        sq.Text,
		Type:        domain.QuestionType(sq.Type),
		Options:     sq.Options,
		MinScale:    sq.MinScale,
		MaxScale:    sq.MaxScale,
		IsActive:    true,
		ReleaseDate: releaseDate,
	}
	if sq.ScaleLabels != nil {
		question.ScaleLabels = &domain.ScaleLabels{Min: sq.ScaleLabels.Min, Max: sq.ScaleLabels.Max}
	}
	return question, nil
}
