package worker

import (
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/broker"
	"github.com/roadwatch/hazard-service/internal/service"
)

// NotificationWorker owns the notification subscriptions and the broker they publish to.
type NotificationWorker struct {
	publisher broker.Publisher
	logger    *zap.Logger
}

// StartNotificationWorker registers notification handlers and returns a worker
// whose Stop closes the broker connection.
func StartNotificationWorker(notificationService *service.NotificationService, publisher broker.Publisher, logger *zap.Logger) *NotificationWorker {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	return &NotificationWorker{publisher: publisher, logger: logger}
}

// Stop flushes pending messages.
func (w *NotificationWorker) Stop() {
	if w == nil || w.publisher == nil {
		return
	}
	if err := w.publisher.Close(); err != nil {
		w.logger.Warn("closing event publisher", zap.Error(err))
	}
}
