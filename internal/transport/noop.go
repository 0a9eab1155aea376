package transport

import (
	"context"

	"github.com/KirkDiggler/robowars/internal/models"
)

// noopTransport is used by single-instance deployments
type noopTransport struct{}

// NewNoop returns a transport that drops everything
func NewNoop() *noopTransport {
	return &noopTransport{}
}

func (noopTransport) Publish(ctx context.Context, msg *models.SyncMessage) error {
	if msg == nil {
		return ErrNilMessage
	}
	return nil
}

func (noopTransport) Subscribe(ctx context.Context, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	return nil
}

func (noopTransport) Close() error {
	return nil
}
