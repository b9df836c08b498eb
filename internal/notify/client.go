// Package notify publishes ingestion events to RabbitMQ.
package notify

import (
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"mailorg/internal/mailorg"
)

// Client owns the RabbitMQ connection and the channel used for publishing.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.RWMutex
	logger  mailorg.Logger
}

// Dial connects to url and opens a channel.
func Dial(url string, logger mailorg.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Client{conn: conn, channel: ch, logger: logger}
	go c.watchClose(conn.NotifyClose(make(chan *amqp.Error, 1)))

	logger.Info("amqp connected")
	return c, nil
}

func (c *Client) watchClose(closed <-chan *amqp.Error) {
	if err := <-closed; err != nil {
		c.logger.Error("amqp connection closed", "error", err)
	}
}

// Channel returns the publishing channel.
func (c *Client) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	return errors.Join(errs...)
}
