package snapshot

import "errors"

// DefaultKey is the fixed key the snapshot is stored under
const DefaultKey = "robowars_state"

var (
	// ErrSnapshotNotFound is returned when no snapshot has been stored
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotCorrupt is returned when the stored snapshot cannot be decoded
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)
