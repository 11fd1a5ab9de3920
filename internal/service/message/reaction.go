package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// ToggleReaction adds the caller's emoji reaction or removes it when already
// present. The row is locked so concurrent toggles do not lose updates.
func (s *Service) ToggleReaction(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error) {
	emoji = strings.TrimSpace(emoji)
	if !validEmoji(emoji) {
		return nil, domain.NewValidationError("emoji", "invalid emoji")
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("message.ToggleReaction: %w", err)
	}
	access, err := s.perms.RequireMember(ctx, msg.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("message.ToggleReaction: %w", err)
	}

	var added bool
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.messages.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if locked.IsDeleted() {
			return fmt.Errorf("message deleted: %w", domain.ErrConflict)
		}
		added = locked.ToggleReaction(emoji, access.UserID)
		msg = locked
		return s.messages.SetReactions(txCtx, id, locked.Reactions)
	})
	if err != nil {
		return nil, fmt.Errorf("message.ToggleReaction: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: msg.ChannelID,
		Kind:      domain.EventReactionChanged,
		Message:   msg,
		MessageID: &msg.ID,
		At:        time.Now().UTC(),
	})

	s.log.InfoContext(ctx, "reaction toggled",
		slog.String("user_id", access.UserID.String()),
		slog.String("message_id", id.String()),
		slog.Bool("added", added))

	return msg, nil
}

// TranslateMessage returns the text of a readable message translated into
// targetLang.
func (s *Service) TranslateMessage(ctx context.Context, id uuid.UUID, targetLang string) (string, error) {
	targetLang = strings.TrimSpace(targetLang)
	if !validLang(targetLang) {
		return "", domain.NewValidationError("target_lang", "invalid language code")
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("message.TranslateMessage: %w", err)
	}
	if _, err := s.perms.CanRead(ctx, msg.ChannelID); err != nil {
		return "", fmt.Errorf("message.TranslateMessage: %w", err)
	}
	if msg.IsDeleted() {
		return "", fmt.Errorf("message.TranslateMessage: message deleted: %w", domain.ErrConflict)
	}
	if msg.Content == "" {
		return "", nil
	}

	text, err := s.translator.Translate(ctx, msg.Content, targetLang)
	if err != nil {
		return "", fmt.Errorf("message.TranslateMessage: %w", err)
	}
	return text, nil
}
