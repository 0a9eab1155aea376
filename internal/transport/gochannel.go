package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/common/uuid"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelConfig holds configuration for the in-process transport
type GoChannelConfig struct {
	// PubSub lets several instances in one process share a bus; a private one is created when nil
	PubSub *gochannel.GoChannel

	// Topic defaults to DefaultChannel
	Topic string

	// UUID generates watermill message ids; defaults to random UUIDs
	UUID uuid.UUID

	Logger *slog.Logger
}

// goChannelTransport broadcasts over a watermill GoChannel
type goChannelTransport struct {
	pubsub    *gochannel.GoChannel
	ownPubSub bool
	topic     string
	uuid      uuid.UUID
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
	cancel []context.CancelFunc
	wg     sync.WaitGroup
}

// NewGoChannelPubSub creates a GoChannel bus that several transports can share
func NewGoChannelPubSub(l *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger.OrDefault(l)),
	)
}

// NewGoChannel creates an in-process transport
func NewGoChannel(cfg *GoChannelConfig) (*goChannelTransport, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	l := logger.OrDefault(cfg.Logger)

	pubsub := cfg.PubSub
	own := false
	if pubsub == nil {
		pubsub = NewGoChannelPubSub(l)
		own = true
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultChannel
	}

	var gen uuid.UUID = uuid.New()
	if cfg.UUID != nil {
		gen = cfg.UUID
	}

	return &goChannelTransport{
		pubsub:    pubsub,
		ownPubSub: own,
		topic:     topic,
		uuid:      gen,
		logger:    l,
	}, nil
}

// Publish wraps the encoded message in a watermill message
func (t *goChannelTransport) Publish(ctx context.Context, msg *models.SyncMessage) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}

	wm := message.NewMessage(t.uuid.NewUUID(), data)
	wm.Metadata.Set("sender_id", msg.SenderID)
	wm.SetContext(ctx)

	if err := t.pubsub.Publish(t.topic, wm); err != nil {
		return fmt.Errorf("failed to publish sync message: %w", err)
	}
	return nil
}

// Subscribe consumes the topic, acking each message once the handler returns
func (t *goChannelTransport) Subscribe(ctx context.Context, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	messages, err := t.pubsub.Subscribe(subCtx, t.topic)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to %s: %w", t.topic, err)
	}
	t.cancel = append(t.cancel, cancel)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for wm := range messages {
			msg, err := Decode(wm.Payload)
			if err != nil {
				t.logger.Warn("dropping undecodable sync message", "topic", t.topic, "message_uuid", wm.UUID, "error", err)
				wm.Ack()
				continue
			}
			handler(subCtx, msg)
			wm.Ack()
		}
	}()

	return nil
}

// Close cancels every subscription and closes the bus when this transport created it
func (t *goChannelTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	cancels := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	t.wg.Wait()

	if t.ownPubSub {
		return t.pubsub.Close()
	}
	return nil
}
