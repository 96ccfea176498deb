package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user-auth-app/user_auth_app/internal/config"
	"github.com/user-auth-app/user_auth_app/internal/identity"
	"github.com/user-auth-app/user_auth_app/internal/middleware"
	"github.com/user-auth-app/user_auth_app/internal/notification"
	"github.com/user-auth-app/user_auth_app/internal/password"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var repo identity.Repository
	if d.DB != nil {
		repo = identity.NewPostgresRepository(d.DB)
	} else {
		repo = identity.NewMemoryRepository()
	}

	hasher := password.NewBcryptHasher(d.Cfg.BcryptCost)
	notifier := notification.NewLoggerNotifier(d.Logger)
	svc := identity.NewService(repo, hasher, notifier)
	handler := identity.NewHandler(svc)

	var rateLimiter fiber.Handler
	if d.Cache != nil {
		rateLimiter = middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit)
	}

	api := app.Group("/api/v1")
	RegisterAuthRoutes(api, handler, rateLimiter)

	return nil
}
