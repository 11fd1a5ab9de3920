package domain

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is a named conversation container.
type Channel struct {
	ID                 uuid.UUID
	Name               string
	Type               ChannelType
	Description        *string
	IsPublic           bool
	LastMessagePreview *string
	LastActivityAt     *time.Time
	UnreadCount        int // computed per viewer
	MemberCount        int // computed
	AvatarURL          *string
	CreatedBy          uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DMKey returns the canonical key of a direct conversation between a and b.
func DMKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// MediaPath builds the storage path of an upload: <channelID>/<uuid>-<name>.
// Directory components of name are dropped.
func MediaPath(channelID uuid.UUID, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		base = "file"
	}
	return channelID.String() + "/" + uuid.NewString() + "-" + base
}

// MediaChannel returns the channel a stored object belongs to. Object paths
// are laid out as <channelID>/<name>.
func MediaChannel(objectPath string) (uuid.UUID, error) {
	first, _, ok := strings.Cut(objectPath, "/")
	if !ok {
		return uuid.Nil, NewValidationError("path", "missing channel prefix")
	}
	id, err := uuid.Parse(first)
	if err != nil {
		return uuid.Nil, NewValidationError("path", "invalid channel prefix")
	}
	return id, nil
}

// SignedURL is a time-limited download link for a stored object.
type SignedURL struct {
	Bucket    string
	Path      string
	URL       string
	ExpiresAt time.Time
}

// ChannelUpdateParams holds a partial channel update. Nil fields are unchanged.
type ChannelUpdateParams struct {
	Name        *string
	Description *string // ptr("") clears
	AvatarURL   *string // ptr("") clears
	IsPublic    *bool
}

// ChannelMember links a user to a channel.
type ChannelMember struct {
	ChannelID uuid.UUID
	UserID    uuid.UUID
	Role      MemberRole
	JoinedAt  time.Time
	Profile   *Profile
}

// Reaction is a single emoji placed on a message by a user.
type Reaction struct {
	Emoji  string    `json:"emoji"`
	UserID uuid.UUID `json:"user_id"`
}

// Attachment describes a file stored in the attachments bucket.
type Attachment struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

// VoicePayload describes a recording stored in the voice bucket.
type VoicePayload struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration"`
}

// Message is a chat message. ParentID is set for thread replies.
type Message struct {
	ID          uuid.UUID
	ChannelID   uuid.UUID
	SenderID    uuid.UUID
	Content     string
	Type        MessageType
	CreatedAt   time.Time
	EditedAt    *time.Time
	DeletedAt   *time.Time
	ParentID    *uuid.UUID
	ReplyCount  int // computed for top-level messages
	Reactions   []Reaction
	Attachments []Attachment
	Voice       *VoicePayload
}

// IsDeleted reports whether the message was soft-deleted.
func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

// IsReply reports whether the message belongs to a thread.
func (m *Message) IsReply() bool {
	return m.ParentID != nil
}

// HasMedia reports whether the message references stored blobs.
func (m *Message) HasMedia() bool {
	return m.Voice != nil || len(m.Attachments) > 0
}

// ToggleReaction adds the reaction if absent, removes it otherwise.
// Returns true when the reaction was added.
func (m *Message) ToggleReaction(emoji string, userID uuid.UUID) bool {
	for i, r := range m.Reactions {
		if r.Emoji == emoji && r.UserID == userID {
			m.Reactions = append(m.Reactions[:i:i], m.Reactions[i+1:]...)
			return false
		}
	}
	m.Reactions = append(m.Reactions, Reaction{Emoji: emoji, UserID: userID})
	return true
}

// Preview returns the short text shown in channel lists.
func (m *Message) Preview() string {
	const maxPreview = 120
	switch {
	case m.IsDeleted():
		return ""
	case m.Type == MessageTypeVoice:
		return "Voice message"
	case m.Content == "" && len(m.Attachments) > 0:
		return m.Attachments[0].Name
	}
	r := []rune(m.Content)
	if len(r) > maxPreview {
		return string(r[:maxPreview]) + "…"
	}
	return m.Content
}

// ReadReceipt records that a user has viewed a message.
type ReadReceipt struct {
	MessageID uuid.UUID
	ChannelID uuid.UUID
	UserID    uuid.UUID
	ReadAt    time.Time
}

// TypingState is the ephemeral composing signal of a user in a channel.
type TypingState struct {
	ChannelID uuid.UUID
	UserID    uuid.UUID
	IsTyping  bool
	At        time.Time
}
