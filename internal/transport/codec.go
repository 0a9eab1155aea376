package transport

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/robowars/internal/models"
)

// Encode serializes a sync message
func Encode(msg *models.SyncMessage) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync message: %w", err)
	}
	return data, nil
}

// Decode parses a sync message
func Decode(data []byte) (*models.SyncMessage, error) {
	var msg models.SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync message: %w", err)
	}
	return &msg, nil
}
