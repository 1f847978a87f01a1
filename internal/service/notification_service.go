package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/broker"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/observability"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  broker.Publisher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service. publisher may be nil, in which
// case events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, publisher broker.Publisher, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handleReportEvent)
	}
}

// handleReportEvent logs the event and forwards it to Kafka keyed by report id.
// Delivery failures are logged and counted but never returned to the request.
func (n *NotificationService) handleReportEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("report event",
		zap.String("event_type", string(event.Type)),
		zap.String("report_id", event.ReportID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))

	if n.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("encode event", zap.String("event_id", event.ID), zap.Error(err))
		n.metrics.RecordEvent(string(event.Type), false)
		return nil
	}

	if err := n.publisher.Publish(ctx, []byte(event.ReportID), payload); err != nil {
		n.logger.Warn("publish event to kafka failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		observability.CaptureError(ctx, err)
		n.metrics.RecordEvent(string(event.Type), false)
		return nil
	}
	n.metrics.RecordEvent(string(event.Type), true)
	return nil
}
