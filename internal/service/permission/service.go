// Package permission decides what the authenticated user may do in a channel.
//
// Open channels (public, project, shift) are readable by every authenticated
// user. All other channels are visible to members only; non-members get
// domain.ErrForbidden.
package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

type channelRepo interface {
	GetByID(ctx context.Context, id, viewer uuid.UUID) (*domain.Channel, error)
}

type memberRepo interface {
	Get(ctx context.Context, channelID, userID uuid.UUID) (*domain.ChannelMember, error)
}

// Access is the caller's standing in a channel. Member is nil when the
// caller reads an open channel without being a member.
type Access struct {
	UserID  uuid.UUID
	Channel *domain.Channel
	Member  *domain.ChannelMember
}

// Role returns the caller's member role, or "" for non-members.
func (a *Access) Role() domain.MemberRole {
	if a.Member == nil {
		return ""
	}
	return a.Member.Role
}

// Service checks channel access.
type Service struct {
	log      *slog.Logger
	channels channelRepo
	members  memberRepo
}

// NewService creates a new permission service.
func NewService(logger *slog.Logger, channels channelRepo, members memberRepo) *Service {
	return &Service{
		log:      logger.With("service", "permission"),
		channels: channels,
		members:  members,
	}
}

// CanRead resolves the caller's access to a channel they want to read.
func (s *Service) CanRead(ctx context.Context, channelID uuid.UUID) (*Access, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.access(ctx, userID, channelID)
}

// CanReadAs is CanRead for an explicit user, used where no request context
// carries the identity (realtime subscriptions).
func (s *Service) CanReadAs(ctx context.Context, userID, channelID uuid.UUID) (*Access, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	return s.access(ctx, userID, channelID)
}

// RequireMember resolves access and fails with domain.ErrForbidden unless the
// caller is a member of the channel.
func (s *Service) RequireMember(ctx context.Context, channelID uuid.UUID) (*Access, error) {
	a, err := s.CanRead(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if a.Member == nil {
		return nil, fmt.Errorf("not a member of channel %s: %w", channelID, domain.ErrForbidden)
	}
	return a, nil
}

// RequireRole resolves access and fails with domain.ErrForbidden unless the
// caller holds one of roles in the channel.
func (s *Service) RequireRole(ctx context.Context, channelID uuid.UUID, roles ...domain.MemberRole) (*Access, error) {
	a, err := s.RequireMember(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(roles, a.Member.Role) {
		s.log.WarnContext(ctx, "role check failed",
			slog.String("user_id", a.UserID.String()),
			slog.String("channel_id", channelID.String()),
			slog.String("role", a.Member.Role.String()),
		)
		return nil, fmt.Errorf("role %s in channel %s: %w", a.Member.Role, channelID, domain.ErrForbidden)
	}
	return a, nil
}

func (s *Service) access(ctx context.Context, userID, channelID uuid.UUID) (*Access, error) {
	ch, err := s.channels.GetByID(ctx, channelID, userID)
	if err != nil {
		return nil, fmt.Errorf("permission: get channel: %w", err)
	}

	m, err := s.members.Get(ctx, channelID, userID)
	switch {
	case err == nil:
		return &Access{UserID: userID, Channel: ch, Member: m}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("permission: get member: %w", err)
	case ch.Type.IsOpen():
		return &Access{UserID: userID, Channel: ch}, nil
	default:
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrForbidden)
	}
}
