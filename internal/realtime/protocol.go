package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MessageType identifies the payload of an Envelope.
type MessageType string

const (
	// Client -> server.
	TypeSubscribe   MessageType = "subscribe"
	TypeUnsubscribe MessageType = "unsubscribe"
	TypePing        MessageType = "ping"

	// Server -> client.
	TypeSubscribed   MessageType = "subscribed"
	TypeUnsubscribed MessageType = "unsubscribed"
	TypeEvent        MessageType = "event"
	TypeNotify       MessageType = "notify"
	TypePong         MessageType = "pong"
	TypeError        MessageType = "error"
)

// Envelope wraps every socket message with its type.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ChannelRequest is the payload of subscribe and unsubscribe.
type ChannelRequest struct {
	ChannelID uuid.UUID `json:"channel_id"`
}

// SubscribedMessage acknowledges a subscription. Seq is the last sequence
// number assigned in the channel; the next event carries Seq+1.
type SubscribedMessage struct {
	ChannelID uuid.UUID `json:"channel_id"`
	Seq       int64     `json:"seq"`
}

// ErrorMessage reports a rejected request.
type ErrorMessage struct {
	ChannelID *uuid.UUID `json:"channel_id,omitempty"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
}

const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeTooMany        = "too_many_subscriptions"
	ErrCodeInternal       = "internal"
)

// NewEnvelope marshals data into an envelope of the given type.
func NewEnvelope(t MessageType, data any) (Envelope, error) {
	env := Envelope{Type: t}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal %s: %w", t, err)
		}
		env.Data = raw
	}
	return env, nil
}

// Encode marshals an envelope of the given type to bytes.
func Encode(t MessageType, data any) ([]byte, error) {
	env, err := NewEnvelope(t, data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// ParseEnvelope decodes a raw socket message.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("parse envelope: missing type")
	}
	return env, nil
}
