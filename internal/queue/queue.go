package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"stitchmart/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// OrderQueueName is the work queue for placed orders
	OrderQueueName = "orders"

	dlxExchange  = "orders.dlx"
	dlqQueueName = "orders.dlq"
)

// Setup declares the order queue with its dead-letter exchange and queue.
// Safe to call from both the publisher and the worker; declarations are
// idempotent.
func Setup(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, OrderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": OrderQueueName,
	}); err != nil {
		return fmt.Errorf("failed to declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	return nil
}

// Publisher publishes order messages to the work queue
type Publisher struct {
	channel *amqp.Channel
}

// NewPublisher creates a Publisher on the given channel
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{channel: ch}
}

// PublishOrderPlaced enqueues a placed-order message as persistent JSON
func (p *Publisher) PublishOrderPlaced(ctx context.Context, msg domain.OrderPlacedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order message: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", OrderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order message: %w", err)
	}

	return nil
}
