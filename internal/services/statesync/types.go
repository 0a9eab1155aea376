package statesync

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/clock"
	"github.com/KirkDiggler/robowars/internal/common/uuid"
	"github.com/KirkDiggler/robowars/internal/metrics"
	"github.com/KirkDiggler/robowars/internal/repositories/snapshot"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/KirkDiggler/robowars/internal/transport"
)

// DefaultDebounce is the quiet period before a change is persisted and broadcast
const DefaultDebounce = 50 * time.Millisecond

// Ignore reasons reported to metrics
const (
	ReasonSelf        = "self"
	ReasonUnknownKind = "unknown_kind"
	ReasonEmptyState  = "empty_state"
	ReasonRejected    = "rejected"
)

// Store is the part of the tournament store the sync service drives
type Store interface {
	ReplaceState(ctx context.Context, input *tournament.ReplaceStateInput) (*tournament.ReplaceStateOutput, error)
	Restore(ctx context.Context, input *tournament.RestoreInput) (*tournament.RestoreOutput, error)
}

// Config holds configuration for the sync service
type Config struct {
	Store      Store
	Repository snapshot.Repository
	Transport  transport.Transport

	// Clock defaults to the system clock
	Clock clock.Clock

	// UUID generates the instance id; defaults to random UUIDs
	UUID uuid.UUID

	// Debounce defaults to DefaultDebounce; zero means the default
	Debounce time.Duration

	// FlushTimeout bounds one persist and publish; defaults to 5s
	FlushTimeout time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}
