package notify

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix prefixes Redis channel names.
const DefaultRedisPrefix = "dispatch.orders"

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher sends order events over Redis Pub/Sub.
type RedisPublisher struct {
	rdb    redisPublisher
	prefix string
	close  func() error
}

// DialRedis connects to Redis and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	p := NewRedisPublisher(rdb, prefix)
	p.close = rdb.Close
	return p, nil
}

// NewRedisPublisher wraps an existing client. An empty prefix falls back
// to DefaultRedisPrefix.
func NewRedisPublisher(rdb redisPublisher, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

// Publish sends each event to the channel for its type.
func (p *RedisPublisher) Publish(ctx context.Context, events ...order.Event) error {
	for _, e := range events {
		body, err := Encode(e)
		if err != nil {
			return err
		}
		channel := topic(p.prefix, e)
		if err = p.rdb.Publish(ctx, channel, body).Err(); err != nil {
			return fmt.Errorf("redis publish to %s: %w", channel, err)
		}
	}
	return nil
}

// Close releases the connection opened by DialRedis.
func (p *RedisPublisher) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}
