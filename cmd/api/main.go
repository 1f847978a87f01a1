package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/roadwatch/hazard-service/internal/api/http"
	"github.com/roadwatch/hazard-service/internal/api/http/handlers"
	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/broker"
	"github.com/roadwatch/hazard-service/internal/config"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/geocode"
	"github.com/roadwatch/hazard-service/internal/observability"
	"github.com/roadwatch/hazard-service/internal/persistence"
	"github.com/roadwatch/hazard-service/internal/repository"
	"github.com/roadwatch/hazard-service/internal/repository/memory"
	"github.com/roadwatch/hazard-service/internal/service"
	"github.com/roadwatch/hazard-service/internal/worker"
)

type repositories struct {
	users       repository.UserRepository
	reports     repository.ReportRepository
	reportTypes repository.ReportTypeRepository
}

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

	sentryEnabled := observability.InitSentry(cfg.Sentry, cfg.App, logger)
	if sentryEnabled {
		defer observability.FlushSentry(2 * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	reportTypes := repository.NewCachedReportTypeRepository(repos.reportTypes, redis.Handle(), cfg.Redis.ReportTypeTTL(), logger)

	var geocoder geocode.Geocoder
	if cfg.Geocode.Enabled {
		geocoder = geocode.NewCachedGeocoder(
			geocode.NewNominatimClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent, cfg.Geocode.Timeout()),
			redis.Handle(),
			cfg.Geocode.CacheTTL(),
			logger,
		)
	}

	policy, err := auth.NewPolicy(cfg.Auth.AdminCanModerate)
	if err != nil {
		logger.Fatal("failed to build authorization policy", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var publisher broker.Publisher
	if producer := broker.NewProducer(cfg.Notification); producer != nil {
		publisher = producer
		logger.Info("publishing report events to kafka",
			zap.Strings("brokers", cfg.Notification.KafkaBrokers),
			zap.String("topic", cfg.Notification.KafkaTopic))
	}
	notificationService := service.NewNotificationService(dispatcher, publisher, metrics, logger)
	notifications := worker.StartNotificationWorker(notificationService, publisher, logger)
	defer notifications.Stop()

	authService := service.NewAuthService(cfg.Auth, repos.users)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:     repos.reports,
		ReportTypeRepo: reportTypes,
		Geocoder:       geocoder,
		Policy:         policy,
		Dispatcher:     dispatcher,
	})
	moderationService := service.NewModerationService(service.ModerationDependencies{
		ReportRepo:    repos.reports,
		Policy:        policy,
		DecidedPolicy: service.DecidedPolicyFromConfig(cfg.Moderation),
		Dispatcher:    dispatcher,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.users)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 1 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		Sentry:       sentryEnabled,
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	dependencies := map[string]handlers.Pinger{"redis": redis}
	if pg.Enabled() {
		dependencies["postgres"] = pg
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Reports:        handlers.NewReportsHandler(reportService),
		Moderation:     handlers.NewModerationHandler(moderationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			users:       repository.NewUserRepository(pool),
			reports:     repository.NewReportRepository(pool),
			reportTypes: repository.NewReportTypeRepository(pool),
		}
	}

	store := memory.NewStore()
	store.SeedReportTypes(memory.DefaultReportTypes()...)
	return repositories{
		users:       store.Users(),
		reports:     store.Reports(),
		reportTypes: store.ReportTypes(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
