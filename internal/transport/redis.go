package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds configuration for the Redis pub/sub transport
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Channel defaults to DefaultChannel
	Channel string

	Logger *slog.Logger
}

// redisTransport broadcasts over Redis PUBLISH / SUBSCRIBE
type redisTransport struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
	wg     sync.WaitGroup
}

// NewRedis creates a Redis-backed transport
func NewRedis(cfg *RedisConfig) (*redisTransport, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RedisClient == nil {
		return nil, ErrNilClient
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	return &redisTransport{
		client:  cfg.RedisClient,
		channel: channel,
		logger:  logger.OrDefault(cfg.Logger),
	}, nil
}

// Publish sends the encoded message on the channel
func (t *redisTransport) Publish(ctx context.Context, msg *models.SyncMessage) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}

	if err := t.client.Publish(ctx, t.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish sync message: %w", err)
	}
	return nil
}

// Subscribe listens on the channel and waits for Redis to confirm the subscription
func (t *redisTransport) Subscribe(ctx context.Context, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	pubsub := t.client.Subscribe(ctx, t.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", t.channel, err)
	}
	t.subs = append(t.subs, pubsub)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				msg, err := Decode([]byte(m.Payload))
				if err != nil {
					t.logger.Warn("dropping undecodable sync message", "channel", t.channel, "error", err)
					continue
				}
				handler(ctx, msg)
			}
		}
	}()

	return nil
}

// Close ends every subscription and waits for the listeners to stop
func (t *redisTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	var firstErr error
	for _, sub := range subs {
		if err := sub.Close(); err != nil && !errors.Is(err, redis.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	t.wg.Wait()

	return firstErr
}
