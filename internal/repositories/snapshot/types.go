package snapshot

import (
	"time"

	"github.com/KirkDiggler/robowars/internal/models"
)

type SaveSnapshotInput struct {
	State *models.Tournament
}

type LoadSnapshotInput struct {
}

type LoadSnapshotOutput struct {
	State *models.Tournament

	// SavedAt is when the snapshot was last written; zero if unknown
	SavedAt time.Time
}

type DeleteSnapshotInput struct {
}
