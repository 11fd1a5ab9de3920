// Package member manages channel membership and member roles.
package member

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

type memberRepo interface {
	Get(ctx context.Context, channelID, userID uuid.UUID) (*domain.ChannelMember, error)
	List(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
	Add(ctx context.Context, members []domain.ChannelMember) (int, error)
	UpdateRole(ctx context.Context, channelID, userID uuid.UUID, role domain.MemberRole) error
	Remove(ctx context.Context, channelID, userID uuid.UUID) error
}

type permissions interface {
	CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireMember(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireRole(ctx context.Context, channelID uuid.UUID, roles ...domain.MemberRole) (*permission.Access, error)
}

type publisher interface {
	Publish(ctx context.Context, ev domain.Event, notify ...uuid.UUID)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements membership operations.
type Service struct {
	log     *slog.Logger
	members memberRepo
	perms   permissions
	events  publisher
	audit   auditLogger
	tx      txManager
}

// NewService creates a new member service.
func NewService(
	logger *slog.Logger,
	members memberRepo,
	perms permissions,
	events publisher,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		log:     logger.With("service", "member"),
		members: members,
		perms:   perms,
		events:  events,
		audit:   audit,
		tx:      tx,
	}
}
