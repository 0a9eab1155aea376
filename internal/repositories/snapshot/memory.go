package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/clock"
	"github.com/KirkDiggler/robowars/internal/models"
)

// MemoryConfig holds configuration for the in-memory snapshot repository
type MemoryConfig struct {
	// Clock stamps each save; defaults to the system clock
	Clock clock.Clock
}

// memoryRepository keeps the encoded snapshot in process memory
type memoryRepository struct {
	mu      sync.RWMutex
	data    []byte
	savedAt time.Time
	clock   clock.Clock
}

// NewMemory creates an in-memory snapshot repository
func NewMemory(cfg *MemoryConfig) *memoryRepository {
	var clk clock.Clock = &clock.DefaultClock{}
	if cfg != nil && cfg.Clock != nil {
		clk = cfg.Clock
	}

	return &memoryRepository{
		clock: clk,
	}
}

// SaveSnapshot stores the encoded snapshot
func (r *memoryRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = data
	r.savedAt = r.clock.Now().UTC()

	return nil
}

// LoadSnapshot decodes the stored snapshot
func (r *memoryRepository) LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error) {
	r.mu.RLock()
	data, savedAt := r.data, r.savedAt
	r.mu.RUnlock()

	if data == nil {
		return nil, ErrSnapshotNotFound
	}

	output, err := decode(data)
	if err != nil {
		return nil, err
	}
	output.SavedAt = savedAt

	return output, nil
}

// DeleteSnapshot clears the stored snapshot
func (r *memoryRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = nil
	r.savedAt = time.Time{}

	return nil
}

// SetRaw stores raw bytes as the snapshot, bypassing encoding
func (r *memoryRepository) SetRaw(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append([]byte{}, data...)
}

func decode(data []byte) (*LoadSnapshotOutput, error) {
	var state models.Tournament
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	return &LoadSnapshotOutput{
		State: &state,
	}, nil
}
