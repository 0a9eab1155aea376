package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/robowars/internal/common/logger"
	"github.com/KirkDiggler/robowars/internal/models"
	"github.com/nats-io/nats.go"
)

// NATSConfig holds configuration for the NATS transport
type NATSConfig struct {
	// URL is used to connect when Conn is nil
	URL string

	// Conn is an existing connection; the transport does not close it
	Conn *nats.Conn

	// Subject defaults to DefaultChannel
	Subject string

	// Timeout bounds connecting and subscription flushes; defaults to 10s
	Timeout time.Duration

	Logger *slog.Logger
}

// natsTransport broadcasts over a core NATS subject
type natsTransport struct {
	conn    *nats.Conn
	ownConn bool
	subject string
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	subs   []*nats.Subscription
	done   chan struct{}
}

// NewNATS creates a NATS-backed transport
func NewNATS(cfg *NATSConfig) (*natsTransport, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	subject := cfg.Subject
	if subject == "" {
		subject = DefaultChannel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	conn := cfg.Conn
	own := false
	if conn == nil {
		if cfg.URL == "" {
			return nil, ErrMissingURL
		}

		var err error
		conn, err = nats.Connect(cfg.URL, nats.Name("robowars"), nats.Timeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		own = true
	}

	return &natsTransport{
		conn:    conn,
		ownConn: own,
		subject: subject,
		timeout: timeout,
		logger:  logger.OrDefault(cfg.Logger),
		done:    make(chan struct{}),
	}, nil
}

// Publish sends the encoded message on the subject
func (t *natsTransport) Publish(ctx context.Context, msg *models.SyncMessage) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}

	if err := t.conn.Publish(t.subject, data); err != nil {
		return fmt.Errorf("failed to publish sync message: %w", err)
	}
	return nil
}

// Subscribe registers an async subscription and flushes so the server knows about it
func (t *natsTransport) Subscribe(ctx context.Context, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	sub, err := t.conn.Subscribe(t.subject, func(m *nats.Msg) {
		msg, err := Decode(m.Data)
		if err != nil {
			t.logger.Warn("dropping undecodable sync message", "subject", t.subject, "error", err)
			return
		}
		handler(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", t.subject, err)
	}

	if err := t.conn.FlushTimeout(t.timeout); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("failed to flush subscription: %w", err)
	}
	t.subs = append(t.subs, sub)

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Unsubscribe()
		case <-t.done:
		}
	}()

	return nil
}

// Close unsubscribes and closes the connection when this transport opened it
func (t *natsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)

	for _, sub := range t.subs {
		_ = sub.Unsubscribe()
	}
	t.subs = nil

	if t.ownConn {
		t.conn.Close()
	}
	return nil
}
