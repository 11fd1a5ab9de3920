package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, displayName *string, avatarURL *string) (*domain.User, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error)
}

// auditLogger defines the audit interface needed by user service.
type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// txManager defines the transaction manager interface needed by user service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements user profile operations.
type Service struct {
	log   *slog.Logger
	users userRepo
	audit auditLogger
	tx    txManager
}

// NewService creates a new user service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
		audit: audit,
		tx:    tx,
	}
}
