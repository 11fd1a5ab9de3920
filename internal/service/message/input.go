package message

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	maxAttachments   = 10
	maxEmojiLen      = 32
	maxVoiceSeconds  = 15 * 60
	maxSearchLen     = 200
	maxTargetLangLen = 10
)

// ListMessagesInput selects a page of top-level messages.
type ListMessagesInput struct {
	ChannelID uuid.UUID
	Before    *time.Time
	Limit     int
	Search    string
}

func (i ListMessagesInput) Validate() error {
	var errs []domain.FieldError
	if i.ChannelID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "channel_id", Message: "required"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if utf8.RuneCountInString(i.Search) > maxSearchLen {
		errs = append(errs, domain.FieldError{Field: "search", Message: "too long"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SendMessageInput holds a new message. ParentID makes it a thread reply.
type SendMessageInput struct {
	ChannelID   uuid.UUID
	Content     string
	Type        domain.MessageType
	Attachments []domain.Attachment
	Voice       *domain.VoicePayload
	ParentID    *uuid.UUID
}

// Validate checks shape and size. A message needs text, attachments or a
// voice payload; voice messages carry a voice payload and nothing else.
func (i SendMessageInput) Validate(maxLen int) error {
	var errs []domain.FieldError

	if i.ChannelID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "channel_id", Message: "required"})
	}
	typ := i.Type
	if typ == "" {
		typ = domain.MessageTypeText
	}
	if !typ.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown message type"})
	}

	content := strings.TrimSpace(i.Content)
	if utf8.RuneCountInString(content) > maxLen {
		errs = append(errs, domain.FieldError{Field: "content", Message: "too long"})
	}

	switch typ {
	case domain.MessageTypeVoice:
		switch {
		case i.Voice == nil:
			errs = append(errs, domain.FieldError{Field: "voice", Message: "required for voice messages"})
		case i.Voice.DurationSeconds <= 0 || i.Voice.DurationSeconds > maxVoiceSeconds:
			errs = append(errs, domain.FieldError{Field: "voice.duration", Message: "out of range"})
		}
		if len(i.Attachments) > 0 {
			errs = append(errs, domain.FieldError{Field: "attachments", Message: "not allowed on voice messages"})
		}
	default:
		if i.Voice != nil {
			errs = append(errs, domain.FieldError{Field: "voice", Message: "only allowed on voice messages"})
		}
		if content == "" && len(i.Attachments) == 0 {
			errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
		}
	}

	if len(i.Attachments) > maxAttachments {
		errs = append(errs, domain.FieldError{Field: "attachments", Message: "too many attachments"})
	}
	for _, a := range i.Attachments {
		if a.Path == "" || strings.TrimSpace(a.Name) == "" || a.Size < 0 {
			errs = append(errs, domain.FieldError{Field: "attachments", Message: "path and name are required"})
			break
		}
	}

	if i.ParentID != nil && *i.ParentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "parent_id", Message: "invalid id"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validEmoji(emoji string) bool {
	emoji = strings.TrimSpace(emoji)
	return emoji != "" && len(emoji) <= maxEmojiLen && !strings.ContainsAny(emoji, " \t\n")
}

func validLang(lang string) bool {
	if lang == "" || len(lang) > maxTargetLangLen {
		return false
	}
	for _, r := range lang {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-') {
			return false
		}
	}
	return true
}
