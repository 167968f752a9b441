package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pairquiz/internal/adapter"
	"pairquiz/internal/cache"
	"pairquiz/internal/config"
	"pairquiz/internal/database"
	"pairquiz/internal/handler"
	"pairquiz/internal/logger"
	"pairquiz/internal/middleware"
	"pairquiz/internal/repository"
	"pairquiz/internal/service"
	"pairquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Mailer delivery is logged until a real provider is wired in.
	mailer := adapter.NewLogMailer()

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	profileRepository := repository.NewSQLXProfileRepository(db)
	coupleRepository := repository.NewSQLXCoupleRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	answerRepository := repository.NewSQLXAnswerRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	authService, err := service.NewAuthService(userRepository, profileRepository, txManager, cacheAdapter, mailer, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("AuthService initialized")

	profileService := service.NewProfileService(userRepository, profileRepository)
	pairingService := service.NewPairingService(coupleRepository, profileRepository, txManager)
	quizService := service.NewQuizService(questionRepository, answerRepository, coupleRepository, txManager, cacheAdapter)

	validator := validation.NewValidator()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	profileHandler := handler.NewProfileHandler(profileService)
	pairingHandler := handler.NewPairingHandler(pairingService)
	quizHandler := handler.NewQuizHandler(quizService, validator)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	// Add request logging middleware
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/otp/request", authHandler.RequestOTP)
	authGroup.Post("/otp/verify", authHandler.VerifyOTP)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", profileHandler.GetMe)
	userGroup.Put("/me", profileHandler.UpdateMe)

	// Couple routes (all protected)
	coupleGroup := apiGroup.Group("/couples", middleware.Protected(authService))
	coupleGroup.Post("/code", pairingHandler.GenerateCode)
	coupleGroup.Post("/claim", pairingHandler.ClaimCode)
	coupleGroup.Get("/", pairingHandler.GetCouples)

	// Quiz routes; the catalog itself is public
	apiGroup.Get("/quiz/categories", quizHandler.GetQuizData)
	quizGroup := apiGroup.Group("/quiz", middleware.Protected(authService))
	quizGroup.Post("/answers", quizHandler.SaveAnswers)
	quizGroup.Delete("/answers", quizHandler.ResetAnswers)
	quizGroup.Get("/progress", quizHandler.GetProgress)
	quizGroup.Get("/status", quizHandler.GetStatus)
	quizGroup.Get("/comparison", quizHandler.GetComparison)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
