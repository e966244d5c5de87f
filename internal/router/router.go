// Package router assembles the fiber application.
package router

import (
	"errors"
	"strings"

	"estoque-backend/internal/audit"
	"estoque-backend/internal/auth"
	"estoque-backend/internal/config"
	"estoque-backend/internal/inventory"
	"estoque-backend/internal/logger"
	"estoque-backend/internal/metrics"
	"estoque-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "estoque-backend"

type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Inventory *inventory.Service

	// Users and AuditLogs are nil for the workbook backend.
	Users     *auth.UserRepository
	AuditLogs *audit.Store
}

func New(d Deps) *fiber.App {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		UnescapePath: true,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.FromFiber(c).Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.Middleware(log))
	app.Use(metrics.NewHTTPMetrics(serviceName).Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "backend": cfg.StoreBackend})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Branch mutations are admin-only once logins exist.
	adminOnly := func(h fiber.Handler) []fiber.Handler { return []fiber.Handler{h} }
	if cfg.AuthEnabled() {
		api.Post("/auth/login", auth.LoginHandler(cfg, d.Users))
		api.Use(auth.JWTMiddleware(cfg))
		api.Get("/auth/me", auth.MeHandler(d.Users))

		requireAdmin := auth.RequireLevel(models.LevelAdmin)
		adminOnly = func(h fiber.Handler) []fiber.Handler { return []fiber.Handler{requireAdmin, h} }

		adminRoutes := api.Group("/admin", requireAdmin)
		adminRoutes.Post("/users", auth.CreateUserHandler(d.Users))

		if d.AuditLogs != nil {
			api.Get("/audit-logs", adminOnly(audit.ListAuditLogsHandler(d.AuditLogs))...)
		}
	}

	svc := d.Inventory
	api.Get("/branches", inventory.SnapshotHandler(svc))
	api.Post("/branches", adminOnly(inventory.CreateBranchHandler(svc))...)
	api.Delete("/branches/:branch", adminOnly(inventory.DeleteBranchHandler(svc))...)

	api.Get("/products", inventory.ListAllProductsHandler(svc))

	branch := api.Group("/branches/:branch")
	branch.Get("/products", inventory.ListProductsHandler(svc))
	branch.Post("/products", inventory.CreateProductHandler(svc))
	branch.Delete("/products", inventory.DeleteProductsHandler(svc))
	branch.Get("/search", inventory.SearchHandler(svc))
	branch.Get("/expiring", inventory.ExpiringHandler(svc, cfg.ExpiryWindowDays))
	branch.Get("/summary", inventory.SummaryHandler(svc))
	branch.Get("/export", inventory.ExportHandler(svc))
	branch.Post("/import", inventory.ImportHandler(svc))

	return app
}
