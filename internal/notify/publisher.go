package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends JSON encoded messages to an exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// AMQPPublisher publishes persistent JSON messages to one topic exchange.
type AMQPPublisher struct {
	channel  Channel
	exchange string
	now      func() time.Time
	timeout  time.Duration
}

// NewAMQPPublisher declares exchange as a durable topic exchange and returns
// a publisher bound to it.
func NewAMQPPublisher(ch Channel, exchange string) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchange, err)
	}

	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		now:      time.Now,
		timeout:  5 * time.Second,
	}, nil
}

// Publish marshals message and publishes it with routingKey.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to exchange '%s' with routing key '%s': %w", p.exchange, routingKey, err)
	}
	return nil
}
