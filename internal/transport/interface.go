package transport

//go:generate mockgen -package=mocks -destination=mocks/mock_transport.go github.com/KirkDiggler/robowars/internal/transport Transport

import (
	"context"

	"github.com/KirkDiggler/robowars/internal/models"
)

// DefaultChannel is the channel sync messages are broadcast on
const DefaultChannel = "robowars_sync"

// Handler receives decoded sync messages, one at a time
type Handler func(ctx context.Context, msg *models.SyncMessage)

// Transport broadcasts sync messages between instances
type Transport interface {
	// Publish broadcasts a message to every subscriber, including the sender's own
	Publish(ctx context.Context, msg *models.SyncMessage) error

	// Subscribe delivers messages to handler until ctx is cancelled or the transport is closed.
	// It returns once the subscription is live.
	Subscribe(ctx context.Context, handler Handler) error

	// Close stops every subscription
	Close() error
}
