package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-portal/internal/api/http"
	"github.com/spec-kit/account-portal/internal/api/http/handlers"
	"github.com/spec-kit/account-portal/internal/auth"
	"github.com/spec-kit/account-portal/internal/config"
	"github.com/spec-kit/account-portal/internal/events"
	"github.com/spec-kit/account-portal/internal/observability"
	"github.com/spec-kit/account-portal/internal/persistence"
	"github.com/spec-kit/account-portal/internal/ratelimit"
	"github.com/spec-kit/account-portal/internal/repository"
	"github.com/spec-kit/account-portal/internal/service"
	"github.com/spec-kit/account-portal/internal/storage"
	"github.com/spec-kit/account-portal/internal/worker"
)

func main() {
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

	userRepo := repository.NewUserRepository(pg.PoolHandle())

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, logger)
	cookies := auth.NewCookieManager(cfg.App.IsProduction())
	guard := auth.NewRouteGuard(auth.DefaultRouteTable(), tokens, cookies, logger)
	authMiddleware := auth.NewMiddleware(tokens, cookies)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Photos:     storage.NewPhotoStore(cfg.Uploads),
		Dispatcher: dispatcher,
	})

	limiter := ratelimit.NewLoginLimiter(
		ratelimit.NewRedisCounterStore(redis.Client),
		cfg.Auth.LoginAttemptLimit,
		cfg.Auth.LoginWindow(),
		logger,
	)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	app.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(accountService, cookies, limiter)
	profileHandler := handlers.NewProfileHandler(accountService, cfg.Uploads)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Profile:        profileHandler,
		Guard:          guard,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
