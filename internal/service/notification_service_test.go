package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadwatch/hazard-service/internal/events"
	"github.com/roadwatch/hazard-service/internal/observability"
)

type fakePublisher struct {
	keys   [][]byte
	values [][]byte
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, key, value []byte) error {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func TestNotificationService_PublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	metrics := observability.NewMetrics()
	NewNotificationService(dispatcher, publisher, metrics, zap.NewNop()).RegisterHandlers()

	publishEvent(context.Background(), dispatcher, events.Event{
		Type:     events.EventReportApproved,
		ReportID: "r1",
		Actor:    events.Actor{UserID: "m1"},
	})

	require.Len(t, publisher.values, 1)
	assert.Equal(t, "r1", string(publisher.keys[0]))

	var decoded events.Event
	require.NoError(t, json.Unmarshal(publisher.values[0], &decoded))
	assert.Equal(t, events.EventReportApproved, decoded.Type)
	assert.NotEmpty(t, decoded.ID)
	assert.False(t, decoded.Timestamp.IsZero())

	assert.Equal(t, []observability.Counter{{Key: "report_approved|delivered", Value: 1}}, metrics.Snapshot().Events)
}

func TestNotificationService_PublishFailureIsSwallowed(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{err: errors.New("broker down")}
	metrics := observability.NewMetrics()
	NewNotificationService(dispatcher, publisher, metrics, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventReportSubmitted, ReportID: "r2"})
	assert.NoError(t, err)
	assert.Equal(t, []observability.Counter{{Key: "report_submitted|dropped", Value: 1}}, metrics.Snapshot().Events)
}

func TestNotificationService_LogOnlyWithoutPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, nil, zap.NewNop()).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventReportReverted, ReportID: "r3"}))
}
