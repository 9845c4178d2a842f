package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
	"github.com/jhoicas/taskhub-api/pkg/logger"
)

// AppOptions opciones para construir la app Fiber.
type AppOptions struct {
	Name    string
	Logger  *logger.Logger
	Metrics *Metrics
	// TrustedProxies IPs o rangos CIDR de los proxies cuyo X-Forwarded-For se acepta.
	// Vacío: la IP del cliente es siempre la de la conexión.
	TrustedProxies []string
}

// NewApp crea la app Fiber con el ErrorHandler central y los middlewares comunes.
func NewApp(opts AppOptions) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cfg := fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: NewErrorHandler(log, opts.Metrics),
	}
	if len(opts.TrustedProxies) > 0 {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.EnableTrustedProxyCheck = true
		cfg.TrustedProxies = opts.TrustedProxies
		cfg.EnableIPValidation = true
	}
	app := fiber.New(cfg)
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(ClientIPMiddleware())
	app.Use(RequestLogger(log))
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	TenantUC     *usecase.TenantUseCase
	UserUC       *usecase.UserUseCase
	ProjectUC    *usecase.ProjectUseCase
	TaskUC       *usecase.TaskUseCase
	Health       *HealthHandler
	Metrics      *Metrics
	LoginLimiter *RateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := deps.Health
	if health == nil {
		health = NewHealthHandler(nil, nil)
	}
	app.Get("/health", health.Check)
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	api := app.Group("/api")
	api.Get("/health", health.Check)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register-tenant", authHandler.RegisterTenant)
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", deps.LoginLimiter.Middleware(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.AuthUC)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	tenantHandler := NewTenantHandler(deps.TenantUC)
	userHandler := NewUserHandler(deps.UserUC)
	tenants := api.Group("/tenants", requireAuth)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.Get)
	tenants.Put("/:id", tenantHandler.Update)
	tenants.Post("/:tenantId/users", userHandler.Create)
	tenants.Get("/:tenantId/users", userHandler.List)

	users := api.Group("/users", requireAuth)
	users.Put("/:userId", userHandler.Update)
	users.Delete("/:userId", userHandler.Delete)

	projectHandler := NewProjectHandler(deps.ProjectUC)
	taskHandler := NewTaskHandler(deps.TaskUC)
	projects := api.Group("/projects", requireAuth)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:projectId", projectHandler.Get)
	projects.Put("/:projectId", projectHandler.Update)
	projects.Delete("/:projectId", projectHandler.Delete)
	projects.Post("/:projectId/tasks", taskHandler.Create)
	projects.Get("/:projectId/tasks", taskHandler.List)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Put("/:taskId", taskHandler.Update)
	tasks.Patch("/:taskId/status", taskHandler.UpdateStatus)
	tasks.Delete("/:taskId", taskHandler.Delete)
}
