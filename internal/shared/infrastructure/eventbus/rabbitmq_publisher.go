package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// ExchangeName is the topic exchange all domain events are published to.
// Routing keys follow the pattern <context>.<aggregate>.<action>, e.g.
// "energy.log.created" or "priority.scores.calculated".
const ExchangeName = "monkmode.domain.events"

// RabbitMQPublisher publishes domain events to a RabbitMQ topic exchange.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex
}

// eventEnvelope is the wire format for published events.
type eventEnvelope struct {
	EventID       string    `json:"event_id"`
	AggregateID   string    `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	RoutingKey    string    `json:"routing_key"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload,omitempty"`
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the durable topic
// exchange.
func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}

	return &RabbitMQPublisher{conn: conn, channel: channel}, nil
}

// Publish sends each event to the topic exchange using the event's routing
// key. Events are published persistent so consumers survive broker restarts.
func (p *RabbitMQPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range events {
		envelope := eventEnvelope{
			EventID:       event.EventID().String(),
			AggregateID:   event.AggregateID().String(),
			AggregateType: event.AggregateType(),
			RoutingKey:    event.RoutingKey(),
			OccurredAt:    event.OccurredAt(),
			Payload:       event,
		}

		body, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.EventID(), err)
		}

		err = p.channel.PublishWithContext(ctx,
			ExchangeName,
			event.RoutingKey(),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.EventID().String(),
				Timestamp:    event.OccurredAt(),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish event %s to %s: %w", event.EventID(), event.RoutingKey(), err)
		}
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("close rabbitmq channel: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close rabbitmq connection: %w", err)
	}
	return nil
}
