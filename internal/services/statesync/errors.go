package statesync

// SyncError is a configuration error of the sync service
type SyncError string

func (e SyncError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       SyncError = "config cannot be nil"
	ErrNilStore        SyncError = "store cannot be nil"
	ErrNilRepository   SyncError = "snapshot repository cannot be nil"
	ErrNilTransport    SyncError = "transport cannot be nil"
	ErrInvalidDebounce SyncError = "debounce must not be negative"
	ErrAlreadyStarted  SyncError = "sync service already started"
	ErrClosed          SyncError = "sync service closed"
)
