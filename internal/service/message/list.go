package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// Thread is a top-level message with its replies in creation order.
type Thread struct {
	Parent  *domain.Message
	Replies []domain.Message
}

// ListMessages returns a page of top-level messages in ascending creation
// order. Limit falls back to the configured page size and is capped.
func (s *Service) ListMessages(ctx context.Context, input ListMessagesInput) ([]domain.Message, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.perms.CanRead(ctx, input.ChannelID); err != nil {
		return nil, fmt.Errorf("message.ListMessages: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.chat.PageSize
	}
	limit = min(limit, s.chat.MaxPageSize)

	messages, err := s.messages.List(ctx, domain.MessageFilter{
		ChannelID: input.ChannelID,
		Before:    input.Before,
		Limit:     limit,
		Search:    input.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("message.ListMessages: %w", err)
	}
	return messages, nil
}

// GetThread returns a top-level message and its replies.
func (s *Service) GetThread(ctx context.Context, parentID uuid.UUID) (*Thread, error) {
	parent, err := s.messages.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("message.GetThread: %w", err)
	}
	if _, err := s.perms.CanRead(ctx, parent.ChannelID); err != nil {
		return nil, fmt.Errorf("message.GetThread: %w", err)
	}
	if parent.IsReply() {
		return nil, domain.NewValidationError("parent_id", "replies have no thread")
	}

	replies, err := s.messages.ListReplies(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("message.GetThread: %w", err)
	}
	return &Thread{Parent: parent, Replies: replies}, nil
}
