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
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"medquest/careers-api/internal/ats"
	"medquest/careers-api/internal/config"
	"medquest/careers-api/internal/handlers"
	"medquest/careers-api/internal/metrics"
	"medquest/careers-api/internal/middleware"
	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
	"medquest/careers-api/internal/views"
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
	appRepo := repositories.NewApplicationRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	m := metrics.NewManager()

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	mailer := services.NewMailer(cfg.Mail)
	if !mailer.Enabled() {
		log.Println("⚠️  SMTP credentials missing, emails will not be sent")
	}
	messages := services.NewMessageBuilder(cfg.Server.PublicBaseURL)
	pdfParser := services.NewPDFParserService()
	scorer := ats.NewScorer()

	exportService := services.NewExportService(appRepo, inviteRepo, cfg.Export.Path, m)
	exportWorker := services.NewExportWorker(exportService)

	appService := services.NewApplicationService(appRepo, storageService, mailer, messages, m)
	atsService := services.NewATSService(appRepo, storageService, pdfParser, scorer, m, cfg.Worker.ScoringConcurrency)
	scheduleService := services.NewScheduleService(appRepo, inviteRepo, mailer, messages, exportWorker, m)
	log.Println("✅ Services initialized successfully")

	// Start export worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportWorker.Start(ctx)
	log.Println("✅ Export worker started successfully")

	if cfg.Recruiter.Key == "" {
		log.Println("⚠️  RECRUITER_KEY is not set, recruiter endpoints will deny every request")
	}

	// Initialize handlers
	router := &handlers.Router{
		Application:  handlers.NewApplicationHandler(appService, cfg.Storage.MaxFileSize),
		Recruiter:    handlers.NewRecruiterHandler(atsService, storageService, exportService),
		Schedule:     handlers.NewScheduleHandler(scheduleService),
		RSVP:         handlers.NewRSVPHandler(scheduleService),
		RecruiterKey: cfg.Recruiter.Key,
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Medquest Careers API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		Views:        views.NewEngine(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: fmt.Sprintf("Origin, Content-Type, Accept, %s, %s",
			middleware.RecruiterKeyHeader, middleware.RecruiterNameHeader),
	}))
	app.Use(middleware.RateLimiter(cfg.Server.RateLimit, time.Minute))
	app.Use(middleware.Metrics(m))

	// Routes
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	v1 := app.Group("/api/v1")
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Register(app)

	app.Static("/", cfg.Server.StaticDir, fiber.Static{
		Index: "consent.html",
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

	if err := app.Listen(addr); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}

	exportWorker.Stop()
	log.Println("👋 Server stopped")
}
