package statesync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/clock"
	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/common/uuid"
	"github.com/KirkDiggler/robowars/internal/metrics"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/repositories/snapshot"
	"github.com/KirkDiggler/robowars/internal/services/tournament"
	"github.com/KirkDiggler/robowars/internal/transport"
)

// Service persists and broadcasts local changes and adopts changes from other instances.
// It is the tournament store's Notifier.
type Service struct {
	store        Store
	repo         snapshot.Repository
	transport    transport.Transport
	clock        clock.Clock
	senderID     string
	debounce     time.Duration
	flushTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics

	mu      sync.Mutex
	pending *models.Tournament
	timer   clock.Timer
	started bool
	closed  bool
	cancel  context.CancelFunc

	// flushMu keeps snapshots leaving in the order they were taken
	flushMu sync.Mutex
}

// New creates a new sync service
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Store == nil {
		return nil, ErrNilStore
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}

	if cfg.Debounce < 0 {
		return nil, ErrInvalidDebounce
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	flushTimeout := cfg.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = 5 * time.Second
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	var gen uuid.UUID = uuid.New()
	if cfg.UUID != nil {
		gen = cfg.UUID
	}

	return &Service{
		store:        cfg.Store,
		repo:         cfg.Repository,
		transport:    cfg.Transport,
		clock:        clk,
		senderID:     gen.NewUUID(),
		debounce:     debounce,
		flushTimeout: flushTimeout,
		logger:       logger.OrDefault(cfg.Logger),
		metrics:      cfg.Metrics,
	}, nil
}

// SenderID is the id stamped on every message this instance publishes
func (s *Service) SenderID() string {
	return s.senderID
}

// StateChanged records the latest state and restarts the debounce timer.
// Called by the store with its lock held, so it only schedules work.
func (s *Service) StateChanged(state *models.Tournament) {
	if state == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("state change after close was not synced")
		return
	}

	s.pending = state
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.debounce, s.flushPending)
}

func (s *Service) flushPending() {
	ctx, cancel := context.WithTimeout(context.Background(), s.flushTimeout)
	defer cancel()

	s.Flush(ctx)
}

// Flush persists and broadcasts the pending state, if any, without waiting for the timer
func (s *Service) Flush(ctx context.Context) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	state := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if state == nil {
		return
	}

	s.persist(ctx, state)
	s.publish(ctx, state)
}

func (s *Service) persist(ctx context.Context, state *models.Tournament) {
	err := s.repo.SaveSnapshot(ctx, &snapshot.SaveSnapshotInput{
		State: state,
	})
	if err != nil {
		s.metrics.PersistFailed()
		s.logger.Warn("failed to persist snapshot", "error", err)
	}
}

func (s *Service) publish(ctx context.Context, state *models.Tournament) {
	err := s.transport.Publish(ctx, &models.SyncMessage{
		Kind:     models.SyncKindStateUpdate,
		State:    state,
		SenderID: s.senderID,
		SentAt:   s.clock.Now(),
	})
	if err != nil {
		s.metrics.PublishFailed()
		s.logger.Warn("failed to publish snapshot", "error", err)
		return
	}
	s.metrics.SnapshotPublished()
}

// Start subscribes to snapshots from other instances
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if s.started {
		return ErrAlreadyStarted
	}

	subCtx, cancel := context.WithCancel(ctx)
	if err := s.transport.Subscribe(subCtx, s.handle); err != nil {
		cancel()
		return err
	}

	s.started = true
	s.cancel = cancel
	s.logger.Info("sync started", "sender_id", s.senderID)

	return nil
}

// handle adopts a foreign snapshot, last writer wins
func (s *Service) handle(ctx context.Context, msg *models.SyncMessage) {
	switch {
	case msg == nil || msg.State == nil:
		s.metrics.SnapshotIgnored(ReasonEmptyState)
		return
	case msg.SenderID == s.senderID:
		s.metrics.SnapshotIgnored(ReasonSelf)
		return
	case msg.Kind != models.SyncKindStateUpdate:
		s.metrics.SnapshotIgnored(ReasonUnknownKind)
		s.logger.Debug("ignoring sync message", "kind", msg.Kind, "sender_id", msg.SenderID)
		return
	}

	_, err := s.store.ReplaceState(ctx, &tournament.ReplaceStateInput{
		State: msg.State,
	})
	if err != nil {
		s.metrics.SnapshotIgnored(ReasonRejected)
		s.logger.Warn("failed to adopt snapshot", "sender_id", msg.SenderID, "error", err)
		return
	}

	s.metrics.SnapshotReceived()
	s.logger.Debug("adopted snapshot", "sender_id", msg.SenderID, "sent_at", msg.SentAt)
}

// Restore loads the persisted snapshot into the store.
// A missing or unreadable snapshot restores the initial tournament.
func (s *Service) Restore(ctx context.Context) (*tournament.RestoreOutput, error) {
	var saved *models.Tournament

	output, err := s.repo.LoadSnapshot(ctx, &snapshot.LoadSnapshotInput{})
	switch {
	case err == nil:
		saved = output.State
	case errors.Is(err, snapshot.ErrSnapshotNotFound):
		s.logger.Info("no persisted snapshot, starting from the initial state")
	case errors.Is(err, snapshot.ErrSnapshotCorrupt):
		s.logger.Warn("persisted snapshot is corrupt, starting from the initial state", "error", err)
	default:
		s.logger.Warn("failed to load persisted snapshot, starting from the initial state", "error", err)
	}

	return s.store.Restore(ctx, &tournament.RestoreInput{
		State: saved,
	})
}

// Close flushes any pending change and stops the subscription.
// The transport and repository stay open; their owner closes them.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	s.Flush(ctx)

	if cancel != nil {
		cancel()
	}
	return nil
}
