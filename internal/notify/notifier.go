package notify

import (
	"context"

	"mailorg/internal/mailorg"
)

const (
	// DefaultExchange is used when no exchange is configured.
	DefaultExchange = "mailorg"

	RoutingKeyMessageIngested = "mail.message.ingested"
	RoutingKeyBatchIngested   = "mail.batch.ingested"
)

// AMQPNotifier implements mailorg.Notifier on top of a Publisher.
type AMQPNotifier struct {
	publisher Publisher
}

// NewAMQPNotifier creates a notifier publishing through p.
func NewAMQPNotifier(p Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: p}
}

func (n *AMQPNotifier) MessageIngested(ctx context.Context, event *mailorg.MessageIngestedEvent) error {
	return n.publisher.Publish(ctx, RoutingKeyMessageIngested, event)
}

func (n *AMQPNotifier) BatchIngested(ctx context.Context, event *mailorg.BatchIngestedEvent) error {
	return n.publisher.Publish(ctx, RoutingKeyBatchIngested, event)
}

var _ mailorg.Notifier = (*AMQPNotifier)(nil)
