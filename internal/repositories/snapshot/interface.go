package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/robowars/internal/repositories/snapshot Repository

import (
	"context"
)

// Repository defines the interface for tournament snapshot persistence
type Repository interface {
	// SaveSnapshot overwrites the stored snapshot
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// LoadSnapshot retrieves the stored snapshot
	LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error)

	// DeleteSnapshot removes the stored snapshot
	DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error
}
