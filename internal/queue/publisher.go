package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event BookingEvent) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to durable queues on the
// default exchange, one queue per routing key.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := declareQueues(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func declareQueues(ch *amqp.Channel) error {
	for _, key := range RoutingKeys {
		if _, err := ch.QueueDeclare(key, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", key, err)
		}
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		logrus.WithError(err).Warn("rabbitmq channel close failed")
	}
	return p.conn.Close()
}

// NopPublisher drops every message. Used when AMQP_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, BookingEvent) error { return nil }
func (NopPublisher) Close() error                                        { return nil }

// NewPublisher connects to url, falling back to NopPublisher when url is
// empty or the broker cannot be reached.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher{}
	}

	p, err := NewAMQPPublisher(url)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq unavailable, booking notifications disabled")
		return NopPublisher{}
	}
	return p
}
