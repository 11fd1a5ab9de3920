package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// EditMessage replaces the text of the caller's own message.
func (s *Service) EditMessage(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return nil, domain.NewValidationError("content", "required")
	case utf8.RuneCountInString(content) > s.chat.MaxMessageLength:
		return nil, domain.NewValidationError("content", "too long")
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("message.EditMessage: %w", err)
	}
	access, err := s.perms.RequireMember(ctx, msg.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("message.EditMessage: %w", err)
	}

	switch {
	case msg.SenderID != access.UserID:
		return nil, fmt.Errorf("message.EditMessage: not the sender: %w", domain.ErrForbidden)
	case msg.IsDeleted():
		return nil, fmt.Errorf("message.EditMessage: message deleted: %w", domain.ErrConflict)
	case msg.Type == domain.MessageTypeVoice:
		return nil, domain.NewValidationError("type", "voice messages cannot be edited")
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	msg.Content = content
	msg.EditedAt = &now

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.messages.UpdateContent(txCtx, id, content, now); err != nil {
			return err
		}
		// No-op unless this is the channel's newest message.
		return s.channels.TouchActivity(txCtx, msg.ChannelID, msg.Preview(), msg.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("message.EditMessage: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: msg.ChannelID,
		Kind:      domain.EventMessageUpdated,
		Message:   msg,
		MessageID: &msg.ID,
		At:        now,
	})

	s.log.InfoContext(ctx, "message edited",
		slog.String("user_id", access.UserID.String()),
		slog.String("message_id", id.String()))

	return msg, nil
}

// DeleteMessage soft-deletes a message. The sender and channel owners or
// admins may delete. Stored media is removed after the commit.
func (s *Service) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("message.DeleteMessage: %w", err)
	}
	access, err := s.perms.RequireMember(ctx, msg.ChannelID)
	if err != nil {
		return fmt.Errorf("message.DeleteMessage: %w", err)
	}
	if msg.SenderID != access.UserID && !access.Role().CanManageMembers() {
		return fmt.Errorf("message.DeleteMessage: %w", domain.ErrForbidden)
	}
	if msg.IsDeleted() {
		return fmt.Errorf("message.DeleteMessage: %w", domain.ErrNotFound)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.messages.SoftDelete(txCtx, id, now); err != nil {
			return err
		}
		if err := s.channels.TouchActivity(txCtx, msg.ChannelID, "", msg.CreatedAt); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeMessage,
			EntityID:   &id,
			Action:     domain.AuditActionDelete,
			Changes: map[string]any{
				"channel_id": msg.ChannelID.String(),
				"sender_id":  msg.SenderID.String(),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("message.DeleteMessage: %w", err)
	}

	s.removeMedia(ctx, msg)

	s.events.Publish(ctx, domain.Event{
		ChannelID: msg.ChannelID,
		Kind:      domain.EventMessageDeleted,
		MessageID: &msg.ID,
		At:        now,
	})

	s.log.InfoContext(ctx, "message deleted",
		slog.String("user_id", access.UserID.String()),
		slog.String("message_id", id.String()))

	return nil
}

func (s *Service) removeMedia(ctx context.Context, msg *domain.Message) {
	for _, a := range msg.Attachments {
		s.removeBlob(ctx, s.storage.AttachmentBucket, a.Path)
	}
	if msg.Voice != nil {
		s.removeBlob(ctx, s.storage.VoiceBucket, msg.Voice.Path)
	}
}

func (s *Service) removeBlob(ctx context.Context, bucket, objectPath string) {
	if err := s.blobs.Delete(bucket, objectPath); err != nil {
		s.log.WarnContext(ctx, "remove media",
			slog.String("bucket", bucket),
			slog.String("path", objectPath),
			slog.String("error", err.Error()))
	}
}
