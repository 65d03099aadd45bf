package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/config"
	"github.com/almaxtex/inventory-backend/internal/handlers"
	"github.com/almaxtex/inventory-backend/internal/logging"
	"github.com/almaxtex/inventory-backend/internal/middleware"
	"github.com/almaxtex/inventory-backend/internal/routes"
	"github.com/almaxtex/inventory-backend/internal/services"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Document store
	var st store.Store
	if cfg.UseMemoryStore {
		slog.Warn("using in-memory store; data will not survive a restart")
		st = store.NewMemoryStore()
	} else {
		if cfg.FirestoreProjectID == "" {
			slog.Error("FIRESTORE_PROJECT_ID environment variable is required")
			os.Exit(1)
		}
		fs, err := store.NewFirestoreStore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
		if err != nil {
			slog.Error("document store connection failed", "error", err)
			os.Exit(1)
		}
		st = fs
	}

	// Audit trail on local disk, also fed ERROR+ slog records
	auditLog := audit.NewLogger(cfg.AuditLogPath)
	auditHandler := logging.NewAuditHandler(auditLog)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		auditHandler,
	)))

	registry := tables.NewRegistry(st)

	// Services
	authService := services.NewAuthService(st, cfg)
	userService := services.NewUserService(st, auditLog)
	tableService := services.NewTableService(st, registry, auditLog)
	importService := services.NewImportService(st, registry, auditLog, cfg.ImportBatchSize)
	locationService := services.NewLocationService(st)
	transferService := services.NewTransferService(st, registry, locationService, auditLog)
	reportService := services.NewReportService(tableService)

	if err := authService.EnsureDefaultAdmin(ctx); err != nil {
		slog.Error("failed to seed default administrator", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(st)
	tableHandler := handlers.NewTableHandler(tableService)
	importHandler := handlers.NewImportHandler(importService)
	transferHandler := handlers.NewTransferHandler(transferService, locationService)
	reportHandler := handlers.NewReportHandler(reportService)
	userHandler := handlers.NewUserHandler(userService)
	logHandler := handlers.NewLogHandler(auditLog)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, tableHandler, importHandler, transferHandler, reportHandler, userHandler, logHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	auditHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := st.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
