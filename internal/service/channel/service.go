// Package channel manages conversation containers: creation (including
// deduplicated direct conversations), listing, settings and deletion.
package channel

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

type channelRepo interface {
	GetByID(ctx context.Context, id, viewer uuid.UUID) (*domain.Channel, error)
	GetByDMKey(ctx context.Context, key string, viewer uuid.UUID) (*domain.Channel, error)
	ListVisible(ctx context.Context, viewer uuid.UUID) ([]domain.Channel, error)
	Create(ctx context.Context, ch *domain.Channel, dmKey *string) error
	Update(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type memberRepo interface {
	Add(ctx context.Context, members []domain.ChannelMember) (int, error)
	ListUserIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)
}

type permissions interface {
	CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
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

// Service implements channel operations.
type Service struct {
	log      *slog.Logger
	channels channelRepo
	members  memberRepo
	perms    permissions
	events   publisher
	audit    auditLogger
	tx       txManager
}

// NewService creates a new channel service.
func NewService(
	logger *slog.Logger,
	channels channelRepo,
	members memberRepo,
	perms permissions,
	events publisher,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "channel"),
		channels: channels,
		members:  members,
		perms:    perms,
		events:   events,
		audit:    audit,
		tx:       tx,
	}
}
