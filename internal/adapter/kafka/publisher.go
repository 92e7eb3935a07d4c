// Package kafka publishes warning and accuracy-alert events to the
// downstream notification topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AlertPublisher produces warning and alert events to a Kafka topic.
// It implements engine.EventPublisher.
type AlertPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertPublisher creates a Kafka producer for the alert topic.
func NewAlertPublisher(brokers []string, topic string, logger *slog.Logger) *AlertPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertPublisher{writer: w, logger: logger}
}

// PublishWarning serializes a weather warning and publishes it keyed by
// location so consumers see one location's warnings in order.
func (p *AlertPublisher) PublishWarning(ctx context.Context, w domain.Warning) error {
	msg, err := warningMessage(w)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish warning %s: %w", w.ID, err)
	}
	p.logger.Debug("published warning event",
		"warning_id", w.ID,
		"type", w.Type,
		"severity", w.Severity,
	)
	return nil
}

// PublishAlert publishes an accuracy-degradation alert.
func (p *AlertPublisher) PublishAlert(ctx context.Context, a domain.AccuracyAlert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serialize accuracy alert: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte("accuracy_alert"),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("accuracy_alert")},
			{Key: "issued_at", Value: []byte(a.RaisedAt.Format(time.RFC3339))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish accuracy alert: %w", err)
	}
	return nil
}

func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}

// warningMessage marshals a Warning into a Kafka message.
func warningMessage(w domain.Warning) (kafkago.Message, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize warning: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(w.Location.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(string(w.Type))},
			{Key: "issued_at", Value: []byte(w.IssuedAt.Format(time.RFC3339))},
		},
	}, nil
}
