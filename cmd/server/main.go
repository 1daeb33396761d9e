package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/geopix/server/internal/config"
	"github.com/geopix/server/internal/handlers"
	custommw "github.com/geopix/server/internal/middleware"
	"github.com/geopix/server/internal/observability"
	"github.com/geopix/server/internal/repository"
	"github.com/geopix/server/internal/services"
	"github.com/geopix/server/internal/vision"
)

const serviceVersion = "1.0.0"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("geopix-server", serviceVersion))
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}

	// Initialize database and repositories
	var photoRepo repository.PhotoRepo
	var commentRepo repository.CommentRepo
	var userRepo repository.UserRepo
	if cfg.UsePostgres() {
		observability.Info("Using PostgreSQL database")
		db, err := repository.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
		}
		defer db.Close()
		photoRepo = repository.NewPhotoRepositoryPostgres(db)
		commentRepo = repository.NewCommentRepositoryPostgres(db)
		userRepo = repository.NewUserRepositoryPostgres(db)
	} else {
		observability.Info("Using SQLite database")
		db, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer db.Close()
		photoRepo = repository.NewPhotoRepository(db)
		commentRepo = repository.NewCommentRepository(db)
		userRepo = repository.NewUserRepository(db)
	}

	// Initialize services
	storageService, err := services.NewPhotoStorageService(cfg.PhotoStorage.BasePath)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	exifService := services.NewEXIFService()
	validator := services.NewUploadValidator(exifService, cfg.PhotoStorage.MaxFileSizeMB)
	provider := vision.New(cfg.Vision, storageService.BasePath())
	enrichmentService := services.NewEnrichmentService(photoRepo, provider)

	// Initialize handlers
	photoHandler := handlers.NewPhotoHandler(photoRepo, storageService, validator, enrichmentService)
	commentHandler := handlers.NewCommentHandler(commentRepo, photoRepo)
	authHandler := handlers.NewAuthHandler(userRepo)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware("geopix-server"))
	if httpMetrics, err := observability.NewHTTPMetrics(); err == nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	} else {
		log.Printf("Warning: HTTP metrics unavailable: %v", err)
	}
	r.Use(custommw.UserAPIKeyAuth(userRepo, "X-API-Key", []string{"/health", "/api/auth/*"}))

	// Routes
	r.Get("/health", healthHandler.HealthCheck)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/photos", func(r chi.Router) {
		r.Post("/upload", photoHandler.Upload)
		r.Get("/", photoHandler.List)
		r.Get("/{id}", photoHandler.GetByID)
		r.Delete("/{id}", photoHandler.Delete)
		r.Post("/{id}/regenerate", photoHandler.Regenerate)
		r.Get("/{id}/comments", commentHandler.List)
		r.Post("/{id}/comments", commentHandler.Add)
	})

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		observability.Infof("GeoPix server starting on %s", cfg.ServerAddress)
		observability.Infof("Photo storage path: %s", cfg.PhotoStorage.BasePath)
		observability.Infof("Max file size: %dMB", cfg.PhotoStorage.MaxFileSizeMB)
		observability.Infof("Vision provider: %s", provider.Name())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: telemetry shutdown failed: %v", err)
		}
	}

	observability.Info("Server stopped")
}
