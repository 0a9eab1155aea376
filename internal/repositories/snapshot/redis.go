package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/clock"
	"github.com/redis/go-redis/v9"
)

const savedAtSuffix = ":saved_at"

// Config holds configuration for the Redis snapshot repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Key the snapshot is stored under; defaults to DefaultKey
	Key string

	// Clock stamps each save; defaults to the system clock
	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	key    string
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    key,
		clock:  clk,
	}, nil
}

// SaveSnapshot writes the snapshot and its save time in one pipeline
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	stateJSON, err := json.Marshal(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key, stateJSON, 0)
	pipe.Set(ctx, r.key+savedAtSuffix, r.clock.Now().UTC().Format(time.RFC3339Nano), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot retrieves the snapshot from Redis
func (r *redisRepository) LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error) {
	pipe := r.client.Pipeline()
	stateCmd := pipe.Get(ctx, r.key)
	savedAtCmd := pipe.Get(ctx, r.key+savedAtSuffix)

	// Exec reports redis.Nil for missing keys; each command is checked below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	stateJSON, err := stateCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	output, err := decode(stateJSON)
	if err != nil {
		return nil, err
	}

	if raw, err := savedAtCmd.Result(); err == nil {
		if savedAt, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			output.SavedAt = savedAt
		}
	}

	return output, nil
}

// DeleteSnapshot removes the snapshot from Redis
func (r *redisRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	if err := r.client.Del(ctx, r.key, r.key+savedAtSuffix).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
