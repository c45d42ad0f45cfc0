package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/ai-interviewer/internal/agent"
	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	interviewRepo := repositories.NewInterviewRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	memoryRepo := repositories.NewMemoryRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Worker.RetryMaxAttempts,
		cfg.Worker.RetryInitialDelay,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize profile extractor
	extractorService := services.NewExtractorService(
		memoryRepo,
		geminiService,
		qdrantService,
	)
	log.Println("✅ Extractor service initialized")

	// Initialize worker
	worker := services.NewWorker(
		memoryRepo,
		extractorService,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize interview agent
	retrievalService := services.NewRetrievalService(geminiService, qdrantService)
	sessionStore := agent.NewSessionStore()
	orchestrator := agent.NewOrchestrator(geminiService, retrievalService, sessionStore)
	log.Println("✅ Interview agent initialized")

	// Initialize Handlers
	interviewHandler := handlers.NewInterviewHandler(
		interviewRepo,
		qdrantService,
		cfg.Interview.DefaultDurationMinutes,
	)
	uploadHandler := handlers.NewUploadHandler(
		interviewRepo,
		memoryRepo,
		storageService,
		pdfParser,
		worker,
		cfg.Storage.MaxFileSize,
	)
	sessionHandler := handlers.NewSessionHandler(
		interviewRepo,
		sessionRepo,
		memoryRepo,
		orchestrator,
		cfg.Interview.RecentTurnWindow,
		cfg.Interview.CompletionTimeout,
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Interviewer API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Interview management
	api.Post("/interviews", interviewHandler.HandleCreate)
	api.Get("/interviews", interviewHandler.HandleList)
	api.Get("/interviews/:id", interviewHandler.HandleGet)
	api.Put("/interviews/:id", interviewHandler.HandleUpdate)
	api.Delete("/interviews/:id", interviewHandler.HandleDelete)

	// Profile ingestion
	api.Post("/interviews/:id/upload-cv", uploadHandler.HandleUploadCV)
	api.Post("/interviews/:id/upload-jd", uploadHandler.HandleUploadJD)
	api.Post("/interviews/:id/process-jd-text", uploadHandler.HandleProcessJDText)
	api.Get("/interviews/:id/memory", uploadHandler.HandleGetMemory)

	// Interview runs
	api.Post("/interviews/:id/start", sessionHandler.HandleStart)
	api.Post("/interviews/:id/messages", sessionHandler.HandleMessage)
	api.Post("/interviews/:id/end", sessionHandler.HandleEnd)
	api.Get("/interviews/:id/sessions", sessionHandler.HandleListSessions)
	api.Get("/interviews/:id/latest-session", sessionHandler.HandleLatestSession)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interviews",
				"POST /api/v1/interviews/:id/upload-cv",
				"POST /api/v1/interviews/:id/upload-jd",
				"POST /api/v1/interviews/:id/start",
				"POST /api/v1/interviews/:id/messages",
				"POST /api/v1/interviews/:id/end",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
