package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/observability"
	"github.com/roadwatch/hazard-service/internal/repository"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// publishEvent stamps and dispatches event. Handler failures never reach the caller.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("report_id", event.ReportID),
			zap.Error(err))
	}
}

func actorOf(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}

// reportLookupError maps repository failures on a single report.
func reportLookupError(err error, reportID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("report", map[string]any{"id": reportID})
	}
	return apperrors.NewStoreUnavailable(err)
}
