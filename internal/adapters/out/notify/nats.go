package notify

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"

	"github.com/nats-io/nats.go"
)

// DefaultNATSPrefix prefixes NATS subjects.
const DefaultNATSPrefix = "orders"

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSConfig holds connection settings for DialNATS.
type NATSConfig struct {
	URL            string
	Name           string
	Prefix         string
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
}

// NATSPublisher sends order events to core NATS subjects.
type NATSPublisher struct {
	conn   natsConn
	prefix string
	close  func()
}

// DialNATS connects to the server in cfg.
func DialNATS(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p := NewNATSPublisher(conn, cfg.Prefix)
	p.close = conn.Close
	return p, nil
}

// NewNATSPublisher wraps an open connection. An empty prefix falls back to
// DefaultNATSPrefix.
func NewNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultNATSPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Publish sends each event to the subject for its type.
func (p *NATSPublisher) Publish(ctx context.Context, events ...order.Event) error {
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := Encode(e)
		if err != nil {
			return err
		}
		subject := topic(p.prefix, e)
		if err = p.conn.Publish(subject, body); err != nil {
			return fmt.Errorf("nats publish to %s: %w", subject, err)
		}
	}
	return nil
}

// Close closes the connection opened by DialNATS.
func (p *NATSPublisher) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
