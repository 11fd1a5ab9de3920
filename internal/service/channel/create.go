package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

// CreateChannel creates a channel owned by the caller and adds the listed
// members. A direct conversation with a user the caller already talks to
// returns the existing channel instead of creating a second one.
func (s *Service) CreateChannel(ctx context.Context, input CreateChannelInput) (*domain.Channel, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	memberIDs := uniqueOthers(input.MemberIDs, userID)

	var dmKey *string
	if input.Type.IsDirect() {
		if len(memberIDs) != 1 {
			return nil, domain.NewValidationError("member_ids", "cannot start a direct conversation with yourself")
		}
		key := domain.DMKey(userID, memberIDs[0])
		existing, err := s.channels.GetByDMKey(ctx, key, userID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("channel.CreateChannel find direct: %w", err)
		}
		dmKey = &key
	}

	now := time.Now().UTC()
	ch := &domain.Channel{
		ID:        uuid.New(),
		Name:      input.Name,
		Type:      input.Type,
		IsPublic:  input.IsPublic && !input.Type.IsDirect() && input.Type != domain.ChannelTypeGroup,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != "" {
		ch.Description = &input.Description
	}

	members := make([]domain.ChannelMember, 0, len(memberIDs)+1)
	members = append(members, domain.ChannelMember{ChannelID: ch.ID, UserID: userID, Role: domain.MemberRoleOwner, JoinedAt: now})
	for _, id := range memberIDs {
		members = append(members, domain.ChannelMember{ChannelID: ch.ID, UserID: id, Role: domain.MemberRoleMember, JoinedAt: now})
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.channels.Create(txCtx, ch, dmKey); err != nil {
			return fmt.Errorf("create channel: %w", err)
		}
		if _, err := s.members.Add(txCtx, members); err != nil {
			return fmt.Errorf("add members: %w", err)
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeChannel,
			EntityID:   &ch.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"name":    ch.Name,
				"type":    ch.Type.String(),
				"members": len(members),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		// Lost a race against the other side of the same direct conversation.
		if dmKey != nil && errors.Is(err, domain.ErrAlreadyExists) {
			existing, getErr := s.channels.GetByDMKey(ctx, *dmKey, userID)
			if getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("channel.CreateChannel: %w", err)
	}

	created, err := s.channels.GetByID(ctx, ch.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("channel.CreateChannel reload: %w", err)
	}

	notify := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		notify = append(notify, m.UserID)
	}
	s.events.Publish(ctx, domain.Event{
		ChannelID: created.ID,
		Kind:      domain.EventChannelUpdated,
		Channel:   created,
		At:        now,
	}, notify...)

	s.log.InfoContext(ctx, "channel created",
		slog.String("user_id", userID.String()),
		slog.String("channel_id", created.ID.String()),
		slog.String("type", created.Type.String()),
		slog.Int("members", len(members)))

	return created, nil
}

// uniqueOthers drops duplicates and the caller from ids, keeping order.
func uniqueOthers(ids []uuid.UUID, self uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == self {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
