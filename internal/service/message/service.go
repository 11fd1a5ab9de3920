// Package message implements the server half of a conversation: history,
// threads, sending, editing, soft deletion, reactions and translation.
package message

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/config"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

type messageRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	List(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error)
	ListReplies(ctx context.Context, parentID uuid.UUID) ([]domain.Message, error)
	Create(ctx context.Context, m *domain.Message) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	SetReactions(ctx context.Context, id uuid.UUID, reactions []domain.Reaction) error
}

type channelRepo interface {
	TouchActivity(ctx context.Context, id uuid.UUID, preview string, at time.Time) error
}

type memberRepo interface {
	ListUserIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)
}

type permissions interface {
	CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireMember(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
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

type translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type blobStore interface {
	Delete(bucket, objectPath string) error
}

// Service implements message operations.
type Service struct {
	log        *slog.Logger
	messages   messageRepo
	channels   channelRepo
	members    memberRepo
	perms      permissions
	events     publisher
	audit      auditLogger
	tx         txManager
	translator translator
	blobs      blobStore
	chat       config.ChatConfig
	storage    config.StorageConfig
}

// NewService creates a new message service.
func NewService(
	logger *slog.Logger,
	messages messageRepo,
	channels channelRepo,
	members memberRepo,
	perms permissions,
	events publisher,
	audit auditLogger,
	tx txManager,
	translator translator,
	blobs blobStore,
	chat config.ChatConfig,
	storage config.StorageConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "message"),
		messages:   messages,
		channels:   channels,
		members:    members,
		perms:      perms,
		events:     events,
		audit:      audit,
		tx:         tx,
		translator: translator,
		blobs:      blobs,
		chat:       chat,
		storage:    storage,
	}
}
