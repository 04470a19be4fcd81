package main

import (
	"errors"
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

	"cv-builder/internal/config"
	"cv-builder/internal/handlers"
	"cv-builder/internal/render"
	"cv-builder/internal/repositories"
	"cv-builder/internal/services"
	apperrors "cv-builder/pkg/errors"
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
	docRepo := repositories.NewDocumentRepository(db)
	cvRepo := repositories.NewCVRepository(db)
	themeRepo := repositories.NewThemeRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	documentLoader := services.NewDocumentLoader()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	extractorService, err := services.NewExtractorService(geminiService)
	if err != nil {
		log.Fatalf("❌ Failed to initialize extractor: %v", err)
	}

	// Initialize Qdrant. The rubric store only feeds analysis context, so a
	// missing Qdrant is degraded service, not a startup failure.
	var rubricStore services.RubricStore
	store, err := services.NewQdrantRubricStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Printf("⚠️ Qdrant unavailable, analysis runs without rubric context: %v", err)
	} else if err := store.InitCollection(); err != nil {
		log.Printf("⚠️ Qdrant collection init failed, analysis runs without rubric context: %v", err)
	} else {
		rubricStore = store
		log.Println("✅ Qdrant initialized successfully")
	}

	analyzerService := services.NewAnalyzerService(geminiService, rubricStore)

	renderer := render.NewRenderer()
	exporterService := services.NewChromeExporter(cfg.Export.ChromePath, cfg.Export.Timeout)

	// Initialize Handlers
	extractHandler := handlers.NewExtractHandler(
		documentLoader,
		storageService,
		extractorService,
		analyzerService,
		docRepo,
	)
	cvHandler := handlers.NewCVHandler(cvRepo)
	themeHandler := handlers.NewThemeHandler(themeRepo)
	renderHandler := handlers.NewRenderHandler(renderer, cvRepo, themeRepo)
	exportHandler := handlers.NewExportHandler(renderHandler, exporterService)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, cvRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Builder API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
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

	// API endpoints
	authed := api.Group("", handlers.RequireSession(sessionRepo))
	authed.Post("/extract", extractHandler.Extract)
	authed.Post("/documents/:id/extract", extractHandler.ReExtract)
	authed.Delete("/documents/:id", extractHandler.DeleteDocument)
	authed.Post("/render", renderHandler.Render)
	authed.Post("/export", exportHandler.Export)
	authed.Post("/analyze", analyzeHandler.Analyze)
	authed.Get("/templates", renderHandler.Templates)
	authed.Get("/themes", themeHandler.List)
	authed.Post("/themes", themeHandler.Create)
	authed.Delete("/themes/:id", themeHandler.Delete)
	authed.Get("/cvs", cvHandler.List)
	authed.Post("/cvs", cvHandler.Create)
	authed.Get("/cvs/:id", cvHandler.Get)
	authed.Put("/cvs/:id", cvHandler.Update)
	authed.Delete("/cvs/:id", cvHandler.Delete)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Builder API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/extract",
				"POST /api/v1/documents/:id/extract",
				"DELETE /api/v1/documents/:id",
				"POST /api/v1/render",
				"POST /api/v1/export",
				"POST /api/v1/analyze",
				"GET /api/v1/templates",
				"GET /api/v1/themes",
				"POST /api/v1/themes",
				"DELETE /api/v1/themes/:id",
				"GET /api/v1/cvs",
				"POST /api/v1/cvs",
				"GET /api/v1/cvs/:id",
				"PUT /api/v1/cvs/:id",
				"DELETE /api/v1/cvs/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  fiberErr.Code,
		})
	}

	appErr := apperrors.AsAppError(err)
	body := fiber.Map{
		"error": appErr.Message,
		"kind":  string(appErr.Kind),
	}
	if appErr.Detail != "" {
		body["details"] = appErr.Detail
	}
	return c.Status(appErr.StatusCode()).JSON(body)
}
