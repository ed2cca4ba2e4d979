// Package kafka publishes order lifecycle events to Kafka topics. Consumers
// include driver applications (order offers, pushed changes) and the office
// frontend (route updates).
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

// OrderEvent is the wire envelope for order lifecycle notifications.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	DriverID      *string   `json:"driver_id,omitempty"`
	PendingChange bool      `json:"pending_change"`
	RouteStale    bool      `json:"route_stale"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SaramaEventPublisher implements ports.EventPublisher using a synchronous
// Kafka producer. Publishing is best effort: handlers fire events after
// commit and ignore publish failures, so this publisher logs them.
type SaramaEventPublisher struct {
	producer          sarama.SyncProducer
	orderChangedTopic string
	routeUpdatedTopic string
	logger            *slog.Logger
}

// NewSaramaEventPublisher creates a publisher over the given brokers.
func NewSaramaEventPublisher(
	brokers []string,
	orderChangedTopic string,
	routeUpdatedTopic string,
	logger *slog.Logger,
) (*SaramaEventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &SaramaEventPublisher{
		producer:          producer,
		orderChangedTopic: orderChangedTopic,
		routeUpdatedTopic: routeUpdatedTopic,
		logger:            logger.With("component", "kafka_publisher"),
	}, nil
}

// PublishOrderChanged notifies consumers that the order's state changed:
// submission, acceptance, pushed edits or a lifecycle transition.
func (p *SaramaEventPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	return p.publish(ctx, p.orderChangedTopic, aggregate)
}

// PublishRouteUpdated notifies consumers that the order's route was
// recalculated.
func (p *SaramaEventPublisher) PublishRouteUpdated(ctx context.Context, aggregate *order.Order) error {
	return p.publish(ctx, p.routeUpdatedTopic, aggregate)
}

func (p *SaramaEventPublisher) publish(ctx context.Context, topic string, aggregate *order.Order) error {
	event := OrderEvent{
		OrderID:       aggregate.ID().String(),
		Status:        aggregate.Status().String(),
		PendingChange: aggregate.PendingChange(),
		RouteStale:    aggregate.RouteStale(),
		OccurredAt:    time.Now().UTC(),
	}
	if driverID := aggregate.DriverID(); driverID != nil {
		id := driverID.String()
		event.DriverID = &id
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"topic", topic, "order_id", event.OrderID, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published",
		"topic", topic, "order_id", event.OrderID,
		"partition", partition, "offset", offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *SaramaEventPublisher) Close() error {
	return p.producer.Close()
}
