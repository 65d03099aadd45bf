package routes

import (
	"time"

	"github.com/almaxtex/inventory-backend/internal/config"
	"github.com/almaxtex/inventory-backend/internal/handlers"
	"github.com/almaxtex/inventory-backend/internal/middleware"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tableHandler *handlers.TableHandler,
	importHandler *handlers.ImportHandler,
	transferHandler *handlers.TransferHandler,
	reportHandler *handlers.ReportHandler,
	userHandler *handlers.UserHandler,
	logHandler *handlers.LogHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Every data route requires a valid token plus the operation's
	// permission tag; rendering decisions stay client-side, enforcement
	// does not.
	protected := api.Group("", middleware.JWTProtected(cfg))

	tables := protected.Group("/tables")
	tables.Get("/", middleware.RequirePermission(models.PermTableView), tableHandler.List)
	tables.Post("/", middleware.RequirePermission(models.PermTableAdd), tableHandler.Create)
	tables.Get("/:name", middleware.RequirePermission(models.PermTableView), tableHandler.View)
	tables.Get("/:name/columns", middleware.RequirePermission(models.PermTableView), tableHandler.Columns)
	tables.Get("/:name/search", middleware.RequirePermission(models.PermTableView), tableHandler.Search)
	tables.Post("/:name/records", middleware.RequirePermission(models.PermTableAdd), tableHandler.Add)
	tables.Put("/:name/records", middleware.RequirePermission(models.PermTableUpdate), tableHandler.BulkUpdate)
	tables.Post("/:name/records/delete", middleware.RequirePermission(models.PermTableDelete), tableHandler.DeleteRecords)
	tables.Delete("/:name", middleware.RequirePermission(models.PermTableDelete), tableHandler.Drop)

	tables.Get("/:name/report", middleware.RequirePermission(models.PermReportView), reportHandler.Distribution)
	tables.Get("/:name/export", middleware.RequirePermission(models.PermReportView), reportHandler.Export)

	protected.Post("/import", middleware.RequirePermission(models.PermImportRun), importHandler.Upload)

	protected.Post("/transfers", middleware.RequirePermission(models.PermTransferRun), transferHandler.Transfer)
	protected.Get("/transfers/due", middleware.RequirePermission(models.PermTransferRun), transferHandler.DueReport)

	protected.Get("/locations", middleware.RequirePermission(models.PermTransferRun), transferHandler.ListLocations)
	protected.Post("/locations", middleware.RequirePermission(models.PermUserManage), transferHandler.AddLocation)
	protected.Delete("/locations/:name", middleware.RequirePermission(models.PermUserManage), transferHandler.RemoveLocation)

	protected.Get("/logs", middleware.RequirePermission(models.PermLogView), logHandler.Tail)

	admin := protected.Group("/admin", middleware.RequirePermission(models.PermUserManage))
	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Delete("/users/:username", userHandler.Delete)
	admin.Put("/users/:username/permissions", userHandler.SetPermissions)
}
