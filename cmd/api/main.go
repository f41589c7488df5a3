package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fricdix/bi-dashboard/internal/api/http/handlers"
	"github.com/fricdix/bi-dashboard/internal/auth"
	"github.com/fricdix/bi-dashboard/internal/bi"
	"github.com/fricdix/bi-dashboard/internal/config"
	"github.com/fricdix/bi-dashboard/internal/events"
	"github.com/fricdix/bi-dashboard/internal/observability"
	"github.com/fricdix/bi-dashboard/internal/persistence"
	"github.com/fricdix/bi-dashboard/internal/repository"
	"github.com/fricdix/bi-dashboard/internal/service"
	"github.com/fricdix/bi-dashboard/internal/worker"

	httptransport "github.com/fricdix/bi-dashboard/internal/api/http"
)

func main() {
	// A missing or weak signing secret aborts here, before any listener opens.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditWorker := worker.NewAuditWorker(auditRepo, logger)
	auditWorker.Start(dispatcher)

	authService := service.NewAuthService(*cfg, userRepo, dispatcher)
	cookies := auth.NewCookieManager(cfg.App.Production(), cfg.Auth.SessionTTL())
	resolver := auth.NewSessionResolver(authService.TokenManager(), cookies)

	metrics := observability.NewMetrics()

	dataClient := bi.NewCachedClient(
		bi.NewClient(cfg.Insights.BaseURL, cfg.Insights.Timeout()),
		redis.Client,
		cfg.Insights.CacheTTL(),
		logger,
		metrics,
	)
	insightsService := service.NewInsightsService(dataClient, auditRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Insights.BaseURL, pg, redis),
		Auth:     handlers.NewAuthHandler(authService, cookies),
		Pages:    handlers.NewPagesHandler(insightsService),
		Admin:    handlers.NewAdminHandler(authService, insightsService),
		Resolver: resolver,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	auditWorker.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
