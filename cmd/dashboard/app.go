package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/config"
	"github.com/KirkDiggler/robowars/internal/metrics"
	"github.com/KirkDiggler/robowars/internal/repositories/snapshot"
	"github.com/KirkDiggler/robowars/internal/scoring"
	"github.com/KirkDiggler/robowars/internal/services/statesync"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/KirkDiggler/robowars/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// instance is one wired dashboard process
type instance struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	redis     *redis.Client
	repo      snapshot.Repository
	transport transport.Transport
	store     tournament.Service
	sync      *statesync.Service
}

// newInstance builds the store and everything it syncs through. The caller owns Close.
func newInstance(cfg *config.Config, l *slog.Logger) (*instance, error) {
	inst := &instance{
		cfg:      cfg,
		logger:   logger.OrDefault(l),
		registry: prometheus.NewRegistry(),
	}

	built := false
	defer func() {
		if !built {
			inst.Close(context.Background())
		}
	}()

	inst.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(inst.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	if cfg.UsesRedis() {
		inst.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if inst.repo, err = inst.newRepository(); err != nil {
		return nil, err
	}

	if inst.transport, err = inst.newTransport(); err != nil {
		return nil, err
	}

	store, err := tournament.New(&tournament.Config{
		Roster:     cfg.Roster,
		Calculator: scoring.New(&scoring.Config{Table: cfg.Scoring}),
		Logger:     inst.logger,
		Metrics:    m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament store: %w", err)
	}
	inst.store = store

	inst.sync, err = statesync.New(&statesync.Config{
		Store:      store,
		Repository: inst.repo,
		Transport:  inst.transport,
		Debounce:   cfg.Sync.Debounce,
		Logger:     inst.logger,
		Metrics:    m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sync service: %w", err)
	}
	store.SetNotifier(inst.sync)

	built = true
	return inst, nil
}

func (i *instance) newRepository() (snapshot.Repository, error) {
	switch i.cfg.Storage.Driver {
	case config.StorageRedis:
		repo, err := snapshot.NewRedis(&snapshot.Config{
			RedisClient: i.redis,
			Key:         i.cfg.Storage.Key,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create snapshot repository: %w", err)
		}
		return repo, nil
	case config.StorageMemory:
		i.logger.Warn("snapshots are kept in memory and will not survive a restart")
		return snapshot.NewMemory(nil), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", i.cfg.Storage.Driver)
}

func (i *instance) newTransport() (transport.Transport, error) {
	var (
		tr  transport.Transport
		err error
	)

	switch i.cfg.Sync.Driver {
	case config.SyncRedis:
		tr, err = transport.NewRedis(&transport.RedisConfig{
			RedisClient: i.redis,
			Channel:     i.cfg.Sync.Channel,
			Logger:      i.logger,
		})
	case config.SyncMemory:
		tr, err = transport.NewGoChannel(&transport.GoChannelConfig{
			Topic:  i.cfg.Sync.Channel,
			Logger: i.logger,
		})
	case config.SyncNATS:
		tr, err = transport.NewNATS(&transport.NATSConfig{
			URL:     i.cfg.NATS.URL,
			Subject: i.cfg.Sync.Channel,
			Logger:  i.logger,
		})
	case config.SyncNone:
		tr = transport.NewNoop()
	default:
		err = fmt.Errorf("unknown sync driver %q", i.cfg.Sync.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return tr, nil
}

// Close flushes pending changes, then releases the transport and the Redis client
func (i *instance) Close(ctx context.Context) error {
	var errs []error

	if i.sync != nil {
		if err := i.sync.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sync: %w", err))
		}
	}

	if i.transport != nil {
		if err := i.transport.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close transport: %w", err))
		}
	}

	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
