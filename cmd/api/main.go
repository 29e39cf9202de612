// @title Learn Assist API
// @version 1.0
// @description Learning assistant backend: sign-in, registration, chat Q&A, image upload, voice and practice quizzes.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

//go:generate swag init -g main.go -o docs --parseDependency --parseInternal

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "learn-assist/cmd/api/docs"
	"learn-assist/internal/adapter"
	"learn-assist/internal/adapter/completion"
	"learn-assist/internal/adapter/speech"
	"learn-assist/internal/adapter/upload"
	"learn-assist/internal/cache"
	"learn-assist/internal/config"
	"learn-assist/internal/database"
	"learn-assist/internal/domain"
	"learn-assist/internal/handler"
	"learn-assist/internal/logger"
	"learn-assist/internal/middleware"
	"learn-assist/internal/quiz"
	"learn-assist/internal/repository"
	"learn-assist/internal/service"
	"learn-assist/internal/session"
	"learn-assist/internal/validation"
	"learn-assist/internal/voice"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Successfully connected to Redis")

	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	accountRepository := repository.NewSQLXAccountRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	completionService := newCompletionService(cfg.Completion)
	fileUploader := newFileUploader(ctx, cfg.Upload)
	voiceService := newVoiceService(cfg.Voice)

	bank, err := quiz.LoadSeedBank()
	if err != nil {
		appLogger.Fatal("Failed to load question bank", zap.Error(err))
	}
	quizService, err := service.NewQuizService(quiz.NewMachine(bank, nil), cacheAdapter, domain.Level(cfg.Quiz.DefaultLevel), cfg.Quiz.StateTTL)
	if err != nil {
		appLogger.Fatal("Failed to create QuizService", zap.Error(err))
	}
	chatService := service.NewChatService(completionService, cacheAdapter, cfg.Completion)
	imageService := service.NewImageService(fileUploader, cacheAdapter, cfg.Upload)
	registrationService := service.NewRegistrationService(accountRepository, txManager, cacheAdapter, cfg.Session.RegistrationTTL)

	sessions := session.NewManager(cacheAdapter, cfg.Session.TTL)
	authService, err := service.NewAuthService(accountRepository, sessions, cfg, quizService, chatService, imageService, voiceService)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(sessions, accountRepository)

	validator := validation.NewValidator()
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, validator, cfg),
		User:         handler.NewUserHandler(userService, validator),
		Quiz:         handler.NewQuizHandler(quizService, validator),
		Chat:         handler.NewChatHandler(chatService, validator),
		Image:        handler.NewImageHandler(imageService),
		Voice:        handler.NewVoiceHandler(voiceService, validator),
		Registration: handler.NewRegistrationHandler(registrationService),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"redis":    cacheAdapter.Ping,
			"database": db.PingContext,
		}),
		Page: handler.NewPageHandler(cfg.Server.StaticDir),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	guard := middleware.NewGuard(authService, sessions, cfg.Session.CookieName)
	handler.RegisterRoutes(app, handlers, guard, middleware.NewValidationMiddleware(validator))
	app.Static("/", cfg.Server.StaticDir)
	app.Use(handlers.Page.NotFound)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	voiceService.Close()
	if err := db.Close(); err != nil {
		appLogger.Warn("Failed to close database", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Warn("Failed to close Redis client", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func newCompletionService(cfg config.CompletionConfig) domain.CompletionService {
	appLogger := logger.Get()
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var (
		svc domain.CompletionService
		err error
	)
	switch cfg.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama completion service", zap.String("server_url", cfg.BaseURL), zap.String("model", cfg.Model))
		svc, err = completion.NewOllama(cfg.BaseURL, cfg.Model, httpClient)
	default:
		appLogger.Info("Initializing OpenAI-compatible completion service", zap.String("base_url", cfg.BaseURL), zap.String("model", cfg.Model))
		svc, err = completion.NewOpenAICompatible(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	}
	if err != nil {
		appLogger.Fatal("Failed to create completion service", zap.Error(err))
	}
	return svc
}

func newFileUploader(ctx context.Context, cfg config.UploadConfig) domain.FileUploader {
	appLogger := logger.Get()

	var (
		uploader domain.FileUploader
		err      error
	)
	switch cfg.Source {
	case "s3":
		appLogger.Info("Initializing S3 file uploader", zap.String("bucket", cfg.S3.Bucket))
		uploader, err = upload.NewS3FileUploader(ctx, cfg.S3, appLogger)
	default:
		appLogger.Info("Initializing OpenAI-compatible file uploader", zap.String("base_url", cfg.BaseURL))
		uploader, err = upload.NewOpenAIFileUploader(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	}
	if err != nil {
		appLogger.Fatal("Failed to create file uploader", zap.Error(err))
	}
	return uploader
}

// newVoiceService probes speech support. A missing or broken backend leaves voice
// unavailable instead of stopping the server.
func newVoiceService(cfg config.VoiceConfig) *voice.Service {
	appLogger := logger.Get()

	var (
		transcriber domain.Transcriber
		synthesizer domain.Synthesizer
	)
	if cfg.Enabled {
		backend, err := speech.NewOpenAISpeech(cfg.APIKey, cfg.BaseURL, cfg.TranscriptionModel, cfg.SpeechModel, cfg.Voice, cfg.Timeout)
		if err != nil {
			appLogger.Warn("Speech backend unavailable, voice features disabled", zap.Error(err))
		} else {
			transcriber = backend
			if backend.CanSynthesize() {
				synthesizer = backend
			}
		}
	}

	capability := voice.Probe(cfg.Enabled, transcriber, cfg.Devices)
	if u, ok := capability.(voice.Unavailable); ok {
		appLogger.Info("Speech recognition unavailable", zap.String("reason", u.Reason))
	}
	return voice.NewService(capability, synthesizer, voice.Config{
		MaxAudioBytes: cfg.MaxAudioBytes,
		MaxDuration:   cfg.MaxDuration,
	})
}
