package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one decoded booking message.
type Handler func(routingKey string, event BookingEvent) error

// LogHandler writes each booking message as a structured log line.
func LogHandler(routingKey string, event BookingEvent) error {
	logrus.WithFields(logrus.Fields{
		"type":       routingKey,
		"booking_id": event.BookingID,
		"user_id":    event.UserID,
		"event_id":   event.EventID,
		"event":      event.EventName,
		"ticket":     event.TicketName,
		"status":     event.Status,
	}).Info("booking notification")
	return nil
}

// Consume dials url and feeds every booking queue into handle until ctx is
// done, reconnecting with exponential backoff capped at 30s.
func Consume(ctx context.Context, url string, handle Handler) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := amqp.Dial(url)
		if err != nil {
			logrus.WithError(err).WithField("retry_in", backoff).Warn("notifier: dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithError(err).Warn("notifier: consume loop ended, reconnecting")
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("notifier: set QoS failed")
	}
	if err := declareQueues(ch); err != nil {
		return err
	}

	deliveries := make(chan amqp.Delivery)
	for _, key := range RoutingKeys {
		msgs, err := ch.Consume(key, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", key, err)
		}
		go func(msgs <-chan amqp.Delivery) {
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-ctx.Done():
					return
				}
			}
		}(msgs)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return amqpErr
			}
			return errors.New("connection closed")
		case d := <-deliveries:
			if err := dispatch(d, handle); err != nil {
				logrus.WithError(err).WithField("routing_key", d.RoutingKey).Warn("notifier: message rejected")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func dispatch(d amqp.Delivery, handle Handler) error {
	var event BookingEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return handle(d.RoutingKey, event)
}
