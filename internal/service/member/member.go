package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const maxAddBatch = 500

// ListMembers returns the members of a readable channel with their profiles,
// owners first.
func (s *Service) ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	if _, err := s.perms.CanRead(ctx, channelID); err != nil {
		return nil, fmt.Errorf("member.ListMembers: %w", err)
	}

	members, err := s.members.List(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("member.ListMembers: %w", err)
	}
	return members, nil
}

// AddMembers adds users as plain members. Users already in the channel are
// skipped. Owner or admin only. Returns the number of users added.
func (s *Service) AddMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	switch {
	case len(userIDs) == 0:
		return 0, domain.NewValidationError("user_ids", "required")
	case len(userIDs) > maxAddBatch:
		return 0, domain.NewValidationError("user_ids", "too many users")
	}

	access, err := s.perms.RequireRole(ctx, channelID, domain.MemberRoleOwner, domain.MemberRoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("member.AddMembers: %w", err)
	}
	if access.Channel.Type.IsDirect() {
		return 0, domain.NewValidationError("channel_id", "direct conversations have fixed members")
	}

	now := time.Now().UTC()
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	batch := make([]domain.ChannelMember, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			return 0, domain.NewValidationError("user_ids", "invalid id")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, domain.ChannelMember{ChannelID: channelID, UserID: id, Role: domain.MemberRoleMember, JoinedAt: now})
	}

	var added int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		added, err = s.members.Add(txCtx, batch)
		if err != nil {
			return err
		}
		if added == 0 {
			return nil
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeMember,
			EntityID:   &channelID,
			Action:     domain.AuditActionCreate,
			Changes:    map[string]any{"user_ids": idStrings(batch), "added": added},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("member.AddMembers: %w", err)
	}

	if added > 0 {
		notify := make([]uuid.UUID, len(batch))
		for i, m := range batch {
			notify[i] = m.UserID
		}
		s.events.Publish(ctx, domain.Event{
			ChannelID: channelID,
			Kind:      domain.EventMemberChanged,
			Channel:   access.Channel,
			At:        now,
		}, notify...)
	}

	s.log.InfoContext(ctx, "members added",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", channelID.String()),
		slog.Int("added", added))

	return added, nil
}

// JoinChannel makes the caller a member of an open channel. Joining a channel
// the caller already belongs to returns the existing membership.
func (s *Service) JoinChannel(ctx context.Context, channelID uuid.UUID) (*domain.ChannelMember, error) {
	access, err := s.perms.CanRead(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("member.JoinChannel: %w", err)
	}
	if access.Member != nil {
		return access.Member, nil
	}

	m := domain.ChannelMember{
		ChannelID: channelID,
		UserID:    access.UserID,
		Role:      domain.MemberRoleMember,
		JoinedAt:  time.Now().UTC(),
	}
	if _, err := s.members.Add(ctx, []domain.ChannelMember{m}); err != nil {
		return nil, fmt.Errorf("member.JoinChannel: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: channelID,
		Kind:      domain.EventMemberChanged,
		Member:    &m,
		At:        m.JoinedAt,
	})

	s.log.InfoContext(ctx, "channel joined",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", channelID.String()))

	return &m, nil
}

// RemoveMember removes a user from a channel. Members may always leave; removing
// someone else needs owner or admin, and only the owner may remove an admin.
// The owner can never be removed.
func (s *Service) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	access, err := s.perms.RequireMember(ctx, channelID)
	if err != nil {
		return fmt.Errorf("member.RemoveMember: %w", err)
	}

	target := access.Member
	if userID != access.UserID {
		if !access.Role().CanManageMembers() {
			return fmt.Errorf("member.RemoveMember: %w", domain.ErrForbidden)
		}
		target, err = s.members.Get(ctx, channelID, userID)
		if err != nil {
			return fmt.Errorf("member.RemoveMember: %w", err)
		}
		if target.Role == domain.MemberRoleAdmin && access.Role() != domain.MemberRoleOwner {
			return fmt.Errorf("member.RemoveMember admin: %w", domain.ErrForbidden)
		}
	}
	if target.Role == domain.MemberRoleOwner {
		return fmt.Errorf("member.RemoveMember: owner cannot be removed: %w", domain.ErrConflict)
	}

	now := time.Now()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.members.Remove(txCtx, channelID, userID); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeMember,
			EntityID:   &channelID,
			Action:     domain.AuditActionDelete,
			Changes:    map[string]any{"user_id": userID.String()},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return fmt.Errorf("member.RemoveMember: %w", err)
	}

	removed := *target
	removed.Profile = nil
	s.events.Publish(ctx, domain.Event{
		ChannelID: channelID,
		Kind:      domain.EventMemberChanged,
		Member:    &removed,
		At:        now,
	}, userID)

	s.log.InfoContext(ctx, "member removed",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", channelID.String()),
		slog.String("removed_user_id", userID.String()))

	return nil
}

// UpdateRole changes a member's role between admin and member. Owner only;
// ownership itself cannot be transferred here.
func (s *Service) UpdateRole(ctx context.Context, channelID, userID uuid.UUID, role domain.MemberRole) (*domain.ChannelMember, error) {
	if role != domain.MemberRoleAdmin && role != domain.MemberRoleMember {
		return nil, domain.NewValidationError("role", "must be admin or member")
	}

	access, err := s.perms.RequireRole(ctx, channelID, domain.MemberRoleOwner)
	if err != nil {
		return nil, fmt.Errorf("member.UpdateRole: %w", err)
	}
	if userID == access.UserID {
		return nil, domain.NewValidationError("user_id", "owner cannot change own role")
	}

	var updated *domain.ChannelMember
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.members.UpdateRole(txCtx, channelID, userID, role); err != nil {
			return err
		}
		var err error
		if updated, err = s.members.Get(txCtx, channelID, userID); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     access.UserID,
			EntityType: domain.EntityTypeMember,
			EntityID:   &channelID,
			Action:     domain.AuditActionUpdate,
			Changes:    map[string]any{"user_id": userID.String(), "role": role.String()},
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("member.UpdateRole: user is not a member: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("member.UpdateRole: %w", err)
	}

	s.events.Publish(ctx, domain.Event{
		ChannelID: channelID,
		Kind:      domain.EventMemberChanged,
		Member:    updated,
		At:        time.Now(),
	})

	s.log.InfoContext(ctx, "member role updated",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", channelID.String()),
		slog.String("target_user_id", userID.String()),
		slog.String("role", role.String()))

	return updated, nil
}

func idStrings(members []domain.ChannelMember) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.UserID.String()
	}
	return out
}
