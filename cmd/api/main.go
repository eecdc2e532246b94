package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docflow/internal/blob"
	"docflow/internal/config"
	"docflow/internal/database"
	"docflow/internal/database/migration"
	handlers "docflow/internal/http/handler"
	"docflow/internal/http/middleware"
	"docflow/internal/i18n"
	"docflow/internal/otel"
	"docflow/internal/repository/blobstore"
	"docflow/internal/service"
	"docflow/internal/storage"
)

func main() {
	// Configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if cfg.Auth.Secret == "" {
		log.Error("AUTH_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown failed", "error", err)
		}
	}()

	// Collection persistence backend.
	var (
		store blob.Store
		db    *sql.DB
	)
	switch cfg.Blob.Backend {
	case "postgres":
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		store = blob.NewPostgres(db)
	case "memory":
		store = blob.NewMemory()
	case "file":
		fileStore, err := blob.NewFileStore(cfg.Blob.DataDir)
		if err != nil {
			log.Error("failed to open data directory", "error", err, "dir", cfg.Blob.DataDir)
			os.Exit(1)
		}
		store = fileStore
	default:
		log.Error("unknown blob backend", "backend", cfg.Blob.Backend)
		os.Exit(1)
	}
	log.Info("blob backend ready", "backend", cfg.Blob.Backend)

	// Attachment storage is optional: without MinIO config the document
	// endpoints still work, only attachments are disabled.
	var files storage.Storage
	if cfg.MinIO.Endpoint != "" {
		files, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("object storage not configured, attachments disabled")
	}

	translator, err := i18n.New(log)
	if err != nil {
		log.Error("failed to load locale tables", "error", err)
		os.Exit(1)
	}

	docStore := service.NewDocumentStore(blobstore.NewDocuments(store), files, log)
	taskStore := service.NewTaskStore(blobstore.NewTasks(store), log)
	analytics := service.NewAnalytics(docStore, taskStore, log)
	authSvc := service.NewAuthService(
		blobstore.NewUsers(store),
		[]byte(cfg.Auth.Secret),
		cfg.Auth.TokenTTL,
		cfg.Auth.BcryptCost,
		log,
	)
	prefsSvc := service.NewPreferences(blobstore.NewPreferences(store), translator, log)

	if err := authSvc.Initialize(ctx); err != nil {
		log.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Services{
		Auth:        authSvc,
		Documents:   docStore,
		Tasks:       taskStore,
		Analytics:   analytics,
		Preferences: prefsSvc,
		Translator:  translator,
		DB:          db,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()
	log.Info("server started", "addr", cfg.AppHost, "port", cfg.Port)

	select {
	case err := <-errCh:
		log.Error("server stopped", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}
}
