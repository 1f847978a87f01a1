package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/service"
)

type countingPublisher struct {
	published int
	closed    bool
}

func (p *countingPublisher) Publish(context.Context, []byte, []byte) error {
	p.published++
	return nil
}

func (p *countingPublisher) Close() error {
	p.closed = true
	return errors.New("already closed")
}

func TestStartNotificationWorker(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &countingPublisher{}
	notifications := service.NewNotificationService(dispatcher, publisher, nil, zap.NewNop())

	worker := StartNotificationWorker(notifications, publisher, zap.NewNop())
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventReportSubmitted, ReportID: "r1"}))
	assert.Equal(t, 1, publisher.published)

	worker.Stop()
	assert.True(t, publisher.closed)
}

func TestNotificationWorker_StopWithoutPublisher(t *testing.T) {
	var nilWorker *NotificationWorker
	nilWorker.Stop()
	StartNotificationWorker(nil, nil, zap.NewNop()).Stop()
}
