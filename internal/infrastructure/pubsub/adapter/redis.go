package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"

	"jobhive/internal/infrastructure/pubsub/port"
)

// RedisBus implements port.Bus on Redis pub/sub. One Redis channel carries
// message events for every node of the service.
type RedisBus struct {
	client *redis.Client
}

// NewRedisBusFromEnv constructs a bus using the REDIS_URL environment variable.
func NewRedisBusFromEnv() (*RedisBus, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("redis: REDIS_URL environment variable is not set")
	}
	return NewRedisBus(url)
}

// NewRedisBus constructs a bus from a redis URL and verifies connectivity.
func NewRedisBus(url string) (*RedisBus, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisBus{client: c}, nil
}

var _ port.Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, h port.Handler) (func() error, error) {
	ps := b.client.Subscribe(ctx, channel)

	// Force the subscription to be established before returning so callers
	// don't miss payloads published immediately after Subscribe.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", channel, err)
	}

	go func() {
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				h([]byte(msg.Payload))
			}
		}
	}()

	return ps.Close, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
