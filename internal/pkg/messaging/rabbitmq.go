package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rosterly/rostering-backend-go/internal/domain/notification"
)

// RabbitMQSink publishes roster events to a durable RabbitMQ queue.
type RabbitMQSink struct {
	channel *amqp.Channel
	queue   string
}

// NewRabbitMQSink opens a channel on conn and declares the event queue.
func NewRabbitMQSink(conn *amqp.Connection, queue string) (*RabbitMQSink, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	return &RabbitMQSink{channel: ch, queue: queue}, nil
}

func (s *RabbitMQSink) Publish(ctx context.Context, event notification.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = s.channel.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (s *RabbitMQSink) Close() error {
	return s.channel.Close()
}

// NopSink discards events. Used by tests and the demo CLI.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, event notification.Event) error {
	return nil
}
