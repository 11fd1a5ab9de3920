package channel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

// ListChannels returns the channels visible to the caller with per-viewer
// unread counts, most recently active first.
func (s *Service) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	channels, err := s.channels.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("channel.ListChannels: %w", err)
	}
	return channels, nil
}

// GetChannel returns a channel the caller may read.
func (s *Service) GetChannel(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	access, err := s.perms.CanRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("channel.GetChannel: %w", err)
	}
	return access.Channel, nil
}

// UpdateChannel changes channel settings. Owner or admin only.
func (s *Service) UpdateChannel(ctx context.Context, id uuid.UUID, input UpdateChannelInput) (*domain.Channel, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	access, err := s.perms.RequireRole(ctx, id, domain.MemberRoleOwner, domain.MemberRoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("channel.UpdateChannel: %w", err)
	}
	if input.IsPublic != nil && *input.IsPublic && (access.Channel.Type.IsDirect() || access.Channel.Type == domain.ChannelTypeGroup) {
		return nil, domain.NewValidationError("is_public", "conversations cannot be public")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.channels.Update(txCtx, id, input.params()); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeChannel,
			EntityID:   &id,
			Action:     domain.AuditActionUpdate,
			Changes:    updateChanges(input),
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("channel.UpdateChannel: %w", err)
	}

	updated, err := s.channels.GetByID(ctx, id, access.UserID)
	if err != nil {
		return nil, fmt.Errorf("channel.UpdateChannel reload: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: id,
		Kind:      domain.EventChannelUpdated,
		Channel:   updated,
		At:        updated.UpdatedAt,
	})

	s.log.InfoContext(ctx, "channel updated",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", id.String()))

	return updated, nil
}

// DeleteChannel removes a channel with its members and messages. Owner only.
func (s *Service) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	access, err := s.perms.RequireRole(ctx, id, domain.MemberRoleOwner)
	if err != nil {
		return fmt.Errorf("channel.DeleteChannel: %w", err)
	}

	memberIDs, err := s.members.ListUserIDs(ctx, id)
	if err != nil {
		return fmt.Errorf("channel.DeleteChannel list members: %w", err)
	}

	now := time.Now()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.channels.Delete(txCtx, id); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeChannel,
			EntityID:   &id,
			Action:     domain.AuditActionDelete,
			Changes:    map[string]any{"name": access.Channel.Name},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return fmt.Errorf("channel.DeleteChannel: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: id,
		Kind:      domain.EventChannelDeleted,
		At:        now,
	}, memberIDs...)

	s.log.InfoContext(ctx, "channel deleted",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", id.String()))

	return nil
}

func updateChanges(input UpdateChannelInput) map[string]any {
	changes := make(map[string]any, 4)
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.AvatarURL != nil {
		changes["avatar_url"] = *input.AvatarURL
	}
	if input.IsPublic != nil {
		changes["is_public"] = *input.IsPublic
	}
	return changes
}
