package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/config"
)

// InitSentry configures the global Sentry client. It returns false when no DSN is set.
func InitSentry(cfg config.SentryConfig, app config.AppConfig, logger *zap.Logger) bool {
	if cfg.DSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		Environment:      app.Env,
		Release:          app.Name + "@" + app.Version,
	}); err != nil {
		logger.Error("sentry init failed", zap.Error(err))
		return false
	}
	logger.Info("sentry enabled", zap.String("env", app.Env))
	return true
}

// SentryMiddleware returns the fiber integration handler.
func SentryMiddleware() fiber.Handler {
	return sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	})
}

// CaptureRequestError reports err against the request hub when one exists.
func CaptureRequestError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("route", c.Route().Path)
			scope.SetTag("method", c.Method())
			hub.CaptureException(err)
		})
	}
}

// CaptureError reports background failures that have no request attached.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// FlushSentry waits for buffered events on shutdown.
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}
