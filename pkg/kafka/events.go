package kafka

import (
	"context"
	"time"

	"mediq/pkg/logger"
)

// Domain event types published on the shared events topic.
const (
	EventAvailabilityCreated    = "availability.created"
	EventScheduleReshaped       = "schedule.reshaped"
	EventAppointmentBooked      = "appointment.booked"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentOrphaned    = "appointment.orphaned"
)

// TopicEvents is the shared topic for domain events.
const TopicEvents = "mediq.events"

// TopicEventsDLQ receives events that could not be delivered.
const TopicEventsDLQ = "mediq.events.dlq"

const publishTimeout = 5 * time.Second

// Publisher emits domain events after state changes have been committed.
// Delivery is best effort: failures are logged, never surfaced to callers.
type Publisher struct {
	producer *Producer
	source   string
	log      *logger.Logger
}

// NewPublisher creates a Publisher for the given service. Returns a
// publisher that drops events when brokers is empty, so callers never
// need to nil-check.
func NewPublisher(brokers []string, source string, log *logger.Logger) *Publisher {
	if len(brokers) == 0 {
		log.Warn("kafka brokers not configured, domain events disabled")
		return &Publisher{source: source, log: log}
	}

	producer, err := NewProducer(DefaultProducerConfig(brokers), TopicEvents, TopicEventsDLQ)
	if err != nil {
		log.Error("failed to create kafka producer, domain events disabled", "error", err)
		return &Publisher{source: source, log: log}
	}

	return &Publisher{producer: producer, source: source, log: log}
}

// Emit publishes a domain event keyed for per-entity ordering. The
// payload is JSON-encoded. Emit never blocks the caller's request
// beyond publishTimeout.
func (p *Publisher) Emit(ctx context.Context, eventType string, key string, payload interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	msg := NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.producer.Publish(publishCtx, msg); err != nil {
		p.log.Error("failed to publish domain event",
			"event_type", eventType,
			"key", key,
			"error", err)
	}
}

// Close releases the underlying producer, if any.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
