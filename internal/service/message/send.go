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

// SendMessage stores a message or thread reply from a channel member and
// pushes it to subscribers. Media must have been uploaded into the same
// channel.
func (s *Service) SendMessage(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	if err := input.Validate(s.chat.MaxMessageLength); err != nil {
		return nil, err
	}

	access, err := s.perms.RequireMember(ctx, input.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("message.SendMessage: %w", err)
	}

	if input.ParentID != nil {
		parent, err := s.messages.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("message.SendMessage parent: %w", err)
		}
		switch {
		case parent.ChannelID != input.ChannelID:
			return nil, domain.NewValidationError("parent_id", "parent belongs to another channel")
		case parent.IsReply():
			return nil, domain.NewValidationError("parent_id", "cannot reply to a reply")
		case parent.IsDeleted():
			return nil, domain.NewValidationError("parent_id", "parent was deleted")
		}
	}

	if err := checkMediaChannel(input); err != nil {
		return nil, err
	}

	typ := input.Type
	if typ == "" {
		typ = domain.MessageTypeText
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	msg := &domain.Message{
		ID:          uuid.New(),
		ChannelID:   input.ChannelID,
		SenderID:    access.UserID,
		Content:     strings.TrimSpace(input.Content),
		Type:        typ,
		CreatedAt:   now,
		ParentID:    input.ParentID,
		Attachments: input.Attachments,
		Voice:       input.Voice,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.messages.Create(txCtx, msg); err != nil {
			return err
		}
		return s.channels.TouchActivity(txCtx, msg.ChannelID, msg.Preview(), now)
	})
	if err != nil {
		return nil, fmt.Errorf("message.SendMessage: %w", err)
	}

	notify, err := s.members.ListUserIDs(ctx, msg.ChannelID)
	if err != nil {
		s.log.WarnContext(ctx, "list members for notification",
			slog.String("channel_id", msg.ChannelID.String()),
			slog.String("error", err.Error()))
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: msg.ChannelID,
		Kind:      domain.EventMessageCreated,
		Message:   msg,
		MessageID: &msg.ID,
		At:        now,
	}, notify...)

	s.log.InfoContext(ctx, "message sent",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", msg.ChannelID.String()),
		slog.String("message_id", msg.ID.String()))

	return msg, nil
}

func checkMediaChannel(input SendMessageInput) error {
	paths := make([]string, 0, len(input.Attachments)+1)
	for _, a := range input.Attachments {
		paths = append(paths, a.Path)
	}
	if input.Voice != nil {
		paths = append(paths, input.Voice.Path)
	}

	for _, p := range paths {
		ch, err := domain.MediaChannel(p)
		if err != nil {
			return err
		}
		if ch != input.ChannelID {
			return domain.NewValidationError("path", "media belongs to another channel")
		}
	}
	return nil
}
