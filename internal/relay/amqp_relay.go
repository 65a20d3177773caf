package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/notifyhub/dashcore/internal/mediator"
)

const publishTimeout = 10 * time.Second

// AMQPPublisher is the part of *amqp.Channel the relay uses.
type AMQPPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPRelay publishes every event to a topic exchange, routed by event name.
type AMQPRelay struct {
	ch       AMQPPublisher
	exchange string
}

func NewAMQPRelay(ch AMQPPublisher, exchange string) *AMQPRelay {
	return &AMQPRelay{ch: ch, exchange: exchange}
}

func (r *AMQPRelay) Handle(ctx context.Context, n mediator.Notification) error {
	env, err := Envelope(n)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Name, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         env.Name,
		Body:         body,
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.ch.PublishWithContext(publishCtx, r.exchange, env.Name, false, false, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", env.Name, r.exchange, err)
	}
	return nil
}

// AMQPConn owns the broker connection and the channel used for publishing.
type AMQPConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialAMQP connects to the broker and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPConn{conn: conn, ch: ch}, nil
}

func (c *AMQPConn) Channel() *amqp.Channel { return c.ch }

func (c *AMQPConn) Close() error {
	if err := c.ch.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
