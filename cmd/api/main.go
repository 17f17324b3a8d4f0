package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/cicero-foco/cicero/pkg/validator"

	"github.com/cicero-foco/cicero/internal/adapter/handler"
	"github.com/cicero-foco/cicero/internal/adapter/repository"
	"github.com/cicero-foco/cicero/internal/infrastructure/cache"
	"github.com/cicero-foco/cicero/internal/infrastructure/database"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/cablecast"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/municode"
	"github.com/cicero-foco/cicero/internal/infrastructure/external/resend"
	"github.com/cicero-foco/cicero/internal/infrastructure/storage"
	"github.com/cicero-foco/cicero/internal/usecase/notifier"
	"github.com/cicero-foco/cicero/internal/usecase/pipeline"
	"github.com/cicero-foco/cicero/internal/usecase/scraper"
	"github.com/cicero-foco/cicero/internal/usecase/subscription"
	"github.com/cicero-foco/cicero/internal/usecase/summarizer"
	"github.com/cicero-foco/cicero/internal/usecase/transcriber"
	"github.com/cicero-foco/cicero/internal/usecase/video"
	"github.com/cicero-foco/cicero/pkg/config"
	"github.com/cicero-foco/cicero/pkg/jwt"
	"github.com/cicero-foco/cicero/pkg/llm"
	"github.com/cicero-foco/cicero/pkg/stt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize rate limiter backend
	var limiter subscription.RateLimiter
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		limiter = redisClient
	} else {
		log.Println("⚠️  Redis disabled, using in-process rate limiter")
		limiter = cache.NewMemoryLimiter()
	}

	// Initialize transcript object storage
	log.Println("🗄️  Connecting to object storage...")
	transcriptStore, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	councilRepo := repository.NewCouncilMemberRepository(db)

	// Initialize external clients
	log.Println("🌐 Initializing external clients...")
	municodeClient := municode.NewClient(&cfg.Municode)
	cablecastClient := cablecast.NewClient(&cfg.Cablecast)
	resendClient := resend.NewClient(&cfg.Resend)
	sttClient := stt.NewAssemblyAIClient(&cfg.Assembly)
	llmClient := llm.NewOpenRouterClient(&cfg.OpenRouter)

	// Initialize JWT manager for admin endpoints
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)

	// Initialize services
	log.Println("⚙️  Initializing services...")
	scraperService := scraper.NewService(meetingRepo, municodeClient, logger)
	videoService := video.NewService(meetingRepo, cablecastClient, logger)
	transcriberService := transcriber.NewService(meetingRepo, summaryRepo, sttClient, transcriptStore, logger)
	notifierService := notifier.NewService(subscriberRepo, resendClient, cfg.Server.PublicBaseURL, logger)
	summarizerService := summarizer.NewService(
		meetingRepo,
		summaryRepo,
		councilRepo,
		llmClient,
		transcriptStore,
		notifierService,
		cfg.Pipeline.MinTranscriptChars,
		cfg.Pipeline.MaxTranscriptChars,
		logger,
	)
	pipelineService := pipeline.NewService(
		meetingRepo,
		videoService,
		transcriberService,
		summarizerService,
		cfg.Pipeline.ClaimLease,
		logger,
	)
	subscriptionService := subscription.NewService(subscriberRepo, limiter, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	meetingHandler := handler.NewMeeting(meetingRepo, summaryRepo, councilRepo, logger)
	subscriberHandler := handler.NewSubscriber(subscriptionService, logger)
	pipelineHandler := handler.NewPipeline(
		scraperService,
		videoService,
		transcriberService,
		summarizerService,
		pipelineService,
		meetingRepo,
		logger,
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, meetingHandler, subscriberHandler, pipelineHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
