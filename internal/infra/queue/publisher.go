package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"travelid/internal/pkg/config"
	"travelid/internal/pkg/errs"
	"travelid/internal/usecase/commands"
)

const (
	queueConfirmed = "reservation.confirmed"
	queueCanceled  = "reservation.canceled"
)

// Publisher emits reservation lifecycle events to durable queues. Events are
// emitted after commit; a broker failure is reported to the caller but never
// rolls back the booking.
type Publisher struct {
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewPublisher(conn *amqp.Connection, cfg config.AMQPConfig, logger *slog.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err, "failed to open amqp channel")
	}

	for _, name := range []string{queueConfirmed, queueCanceled} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return nil, errs.Wrap(err, "failed to declare queue "+name)
		}
	}

	return &Publisher{
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func (p *Publisher) ReservationConfirmed(ctx context.Context, evt commands.ReservationEvent) error {
	return p.publish(ctx, queueConfirmed, evt)
}

func (p *Publisher) ReservationCanceled(ctx context.Context, evt commands.ReservationEvent) error {
	return p.publish(ctx, queueCanceled, evt)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, evt commands.ReservationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errs.Wrap(err, "failed to marshal reservation event")
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish "+routingKey)
	}

	p.logger.Debug("published reservation event",
		"routing_key", routingKey,
		"reservation_id", evt.ReservationID)
	return nil
}

func Connect(cfg config.AMQPConfig) (*amqp.Connection, func(), error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	cleanup := func() {
		_ = conn.Close()
	}
	return conn, cleanup, nil
}
