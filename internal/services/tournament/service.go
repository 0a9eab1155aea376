package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/metrics"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/KirkDiggler/robowars/internal/scoring"
)

// service implements the Service interface.
// Every command runs under mu against a clone of the current state and swaps it in only on success.
type service struct {
	mu       sync.Mutex
	state    *models.Tournament
	version  uint64
	roster   []RosterTeam
	calc     *scoring.Calculator
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a new tournament store
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	roster := cfg.Roster
	if len(roster) == 0 {
		roster = DefaultRoster()
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	calc := cfg.Calculator
	if calc == nil {
		calc = scoring.New(nil)
	}

	state := NewInitialState(roster)
	if cfg.InitialState != nil {
		state = cfg.InitialState.Clone()
	}

	return &service{
		state:    state,
		roster:   append([]RosterTeam{}, roster...),
		calc:     calc,
		notifier: cfg.Notifier,
		logger:   logger.OrDefault(cfg.Logger),
		metrics:  cfg.Metrics,
	}, nil
}

// SetNotifier replaces the change notifier
func (s *service) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifier = n
}

// Version returns the number of state changes applied since startup
func (s *service) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// Roster returns the canonical roster
func (s *service) Roster() []RosterTeam {
	return append([]RosterTeam{}, s.roster...)
}

// apply runs fn against a clone of the state and commits the clone when fn succeeds.
// Local commands notify; adopted snapshots do not.
func (s *service) apply(command string, notify bool, fn func(state *models.Tournament) error) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		s.metrics.CommandRejected(command)
		s.logger.Debug("command rejected", "command", command, "error", err)
		return nil, err
	}

	s.state = next
	s.version++
	s.metrics.CommandApplied(command)
	s.metrics.SetStateVersion(s.version)

	if notify && s.notifier != nil {
		s.notifier.StateChanged(next.Clone())
	}

	return next.Clone(), nil
}

// read runs fn against the current state without copying it; fn must not retain or mutate it
func (s *service) read(fn func(state *models.Tournament)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.state)
}

// GetState returns a copy of the current state
func (s *service) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	output := &GetStateOutput{}
	s.read(func(state *models.Tournament) {
		output.State = state.Clone()
		output.Version = s.version
	})
	return output, nil
}

// ReplaceState adopts a snapshot received from another instance without notifying
func (s *service) ReplaceState(ctx context.Context, input *ReplaceStateInput) (*ReplaceStateOutput, error) {
	if input == nil || input.State == nil {
		return nil, ErrNilState
	}

	state, err := s.apply("replace_state", false, func(state *models.Tournament) error {
		*state = *input.State.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ReplaceStateOutput{State: state}, nil
}

// Restore adopts a persisted snapshot merged onto the roster without notifying
func (s *service) Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	merged, ok := MergeSnapshot(input.State, s.roster)
	if !ok && input.State != nil {
		s.logger.Warn("persisted snapshot has no teams, starting from the initial state")
	}

	state, err := s.apply("restore", false, func(state *models.Tournament) error {
		*state = *merged
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	return &RestoreOutput{State: state, Defaulted: !ok}, nil
}
