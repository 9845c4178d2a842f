package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/taskhub-api/internal/application/audit"
	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/application/usecase"
	"github.com/jhoicas/taskhub-api/internal/domain/access"
	"github.com/jhoicas/taskhub-api/internal/domain/entity"
	"github.com/jhoicas/taskhub-api/internal/domain/quota"
	"github.com/jhoicas/taskhub-api/internal/domain/repository"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/memory"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/taskhub-api/internal/interfaces/http"
	"github.com/jhoicas/taskhub-api/pkg/config"
	"github.com/jhoicas/taskhub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacenamiento: PostgreSQL o memoria (desarrollo local).
	var (
		repos     repository.Repos
		txRunner  repository.TxRunner
		auditRepo repository.AuditRepository
		pinger    httpRouter.Pinger
		auditDB   *sql.DB
	)
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		repos, txRunner, auditRepo = store.Repos(), store, store
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		auditDB = postgres.OpenDB(pool)
		defer auditDB.Close()

		repos = postgres.NewRepos(pool)
		txRunner = postgres.NewTxRunner(pool)
		auditRepo = postgres.NewAuditRepository(auditDB)
		pinger = pool
	}

	plans := make(map[entity.Plan]quota.Limits, len(cfg.Plans))
	for name, l := range cfg.Plans {
		plans[entity.Plan(name)] = quota.Limits{MaxUsers: l.MaxUsers, MaxProjects: l.MaxProjects}
	}
	quotaCfg, err := quota.NewConfig(plans)
	if err != nil {
		log.Fatal().Err(err).Msg("límites de planes")
	}
	enforcer := quota.NewEnforcer(quotaCfg)
	guard := access.NewGuard()

	emitter := audit.NewAsyncEmitter(auditRepo, log,
		audit.NewMetrics(prometheus.DefaultRegisterer), cfg.Audit.QueueSize)

	// Revocación de tokens: solo con REDIS_URL.
	var (
		revoker   auth.Revoker
		cachePing httpRouter.Pinger
	)
	if cfg.Redis.URL != "" {
		denylist, err := redisstore.NewDenylist(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer denylist.Close()
		revoker, cachePing = denylist, denylist
	} else {
		log.Warn().Msg("REDIS_URL vacío: logout no revoca tokens")
	}

	authUC := auth.NewAuthUseCase(repos.Tenants, repos.Users, txRunner, enforcer, guard, emitter, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	tenantUC := usecase.NewTenantUseCase(repos.Tenants, guard, enforcer, emitter)
	userUC := usecase.NewUserUseCase(txRunner, repos.Users, repos.Tenants, guard, enforcer, emitter)
	projectUC := usecase.NewProjectUseCase(txRunner, repos.Projects, guard, enforcer, emitter)
	taskUC := usecase.NewTaskUseCase(repos.Tasks, repos.Projects, repos.Users, guard, emitter)

	metrics := httpRouter.NewMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:           cfg.App.Name,
		Logger:         log.Component("http"),
		Metrics:        metrics,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "TaskHub API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		TenantUC:     tenantUC,
		UserUC:       userUC,
		ProjectUC:    projectUC,
		TaskUC:       taskUC,
		Health:       httpRouter.NewHealthHandler(pinger, cachePing),
		Metrics:      metrics,
		LoginLimiter: httpRouter.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Después del servidor: ya no entran eventos nuevos.
	if err := emitter.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciar cola de auditoría")
	}

	log.Info().Msg("aplicación detenida")
}
