package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/config"
	"github.com/forward-rent/prequal/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Gateway overrides the HTTP bureau client.
	Gateway bureau.Gateway
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	svc, err := NewServices(d)
	if err != nil {
		return err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(d.Logger))
	app.Use(middleware.Idempotency(d.Cache, middleware.IdempotencyOptions{TTL: d.Cfg.IdempotencyTTL}, d.Logger))

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"requestId": middleware.RequestIDFrom(c),
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterListingRoutes(api, svc)
	RegisterApplicantRoutes(api, svc)
	RegisterPrequalRoutes(api, svc, middleware.PrequalRateLimit(d.Cache, d.Cfg.PrequalRateLimit, d.Logger))
	RegisterAuditRoutes(api, svc)

	return nil
}
