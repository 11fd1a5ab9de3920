package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a realtime change pushed to channel subscribers.
// Seq is assigned by the hub and increases monotonically per channel.
type Event struct {
	Seq       int64
	ChannelID uuid.UUID
	Kind      EventKind
	Message   *Message
	MessageID *uuid.UUID
	Typing    *TypingState
	Receipt   *ReadReceipt
	Channel   *Channel
	Member    *ChannelMember
	At        time.Time
}
