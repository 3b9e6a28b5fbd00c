package notify

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultAMQPExchange is the topic exchange order events are published to.
const DefaultAMQPExchange = "orders_topic"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher sends order events to a durable topic exchange with the
// event type as routing key.
type AMQPPublisher struct {
	ch       amqpChannel
	exchange string
	now      func() time.Time
	close    func() error
}

// DialAMQP connects to the broker, opens a channel and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultAMQPExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := NewAMQPPublisher(ch, exchange)
	p.close = func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return p, nil
}

// NewAMQPPublisher wraps an open channel on which exchange is declared.
func NewAMQPPublisher(ch amqpChannel, exchange string) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultAMQPExchange
	}
	return &AMQPPublisher{ch: ch, exchange: exchange, now: time.Now}
}

// Publish sends each event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, events ...order.Event) error {
	for _, e := range events {
		body, err := Encode(e)
		if err != nil {
			return err
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now().UTC(),
			ContentType:  "application/json",
			MessageId:    e.ID.String(),
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("amqp publish %s to %s: %w", e.Type, p.exchange, err)
		}
	}
	return nil
}

// Close releases the channel and connection opened by DialAMQP.
func (p *AMQPPublisher) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}
