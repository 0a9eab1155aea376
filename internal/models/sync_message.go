package models

import "time"

// SyncKind identifies the type of a sync message
type SyncKind string

const (
	// SyncKindStateUpdate carries a full tournament snapshot
	SyncKindStateUpdate SyncKind = "STATE_UPDATE"
)

// SyncMessage is broadcast between instances after every state change
type SyncMessage struct {
	// Kind identifies the message type
	Kind SyncKind `json:"kind"`

	// State is the full snapshot of the sender's tournament
	State *Tournament `json:"state"`

	// SenderID is the opaque id of the instance that sent the message
	SenderID string `json:"senderId"`

	// SentAt is when the sender flushed the snapshot
	SentAt time.Time `json:"sentAt"`
}
