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

	"agentdms/admin-api/internal/config"
	"agentdms/admin-api/internal/handlers"
	"agentdms/admin-api/internal/repositories"
	"agentdms/admin-api/internal/services"
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
	projectRepo := repositories.NewProjectRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	validator := services.NewValidatorService(cfg.Storage.MaxFileSize)
	imageService := services.NewImageService(cfg.Storage.ThumbnailSize)
	binder := services.NewMetadataBinder()
	jobStore := services.NewMemoryJobStore()
	permissions := services.NewStaticPermissionChecker(cfg.Auth.GrantedPermissions...)
	log.Println("✅ Services initialized successfully")

	// Initialize processor
	processor := services.NewProcessorService(
		jobStore,
		docRepo,
		projectRepo,
		imageService,
		binder,
		cfg.Worker.ProcessingTimeout,
	)
	log.Println("✅ Processor service initialized")

	// Initialize worker
	worker := services.NewWorker(
		processor,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		validator,
		storageService,
		jobStore,
		projectRepo,
		worker,
		permissions,
	)
	jobHandler := handlers.NewJobHandler(jobStore, validator, permissions)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AgentDMS Admin API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    cfg.BodyLimit(),
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

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/job/:id/status", jobHandler.HandleGetStatus)
	api.Get("/job/:id/result", jobHandler.HandleGetResult)
	api.Get("/supported-formats", jobHandler.HandleGetSupportedFormats)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AgentDMS Admin API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"GET /api/v1/job/:id/status",
				"GET /api/v1/job/:id/result",
				"GET /api/v1/supported-formats",
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
