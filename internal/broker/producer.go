package broker

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/roadwatch/hazard-service/internal/config"
)

// ErrNotConfigured is returned by a producer built without brokers.
var ErrNotConfigured = errors.New("broker: kafka not configured")

// Publisher sends keyed messages to the event topic.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

// Producer writes report events to Kafka.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a Kafka writer from cfg. It returns nil when no brokers are configured.
func NewProducer(cfg config.NotificationConfig) *Producer {
	if !cfg.KafkaEnabled() {
		return nil
	}

	transport := &kafka.Transport{}
	if cfg.KafkaUsername != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}
	}
	if cfg.KafkaTLS {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish writes a single message. Messages with the same key land on the same partition.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
