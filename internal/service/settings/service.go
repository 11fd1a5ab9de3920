// Package settings backs the back-office forms: budgets, forecast templates
// and key/value settings groups. Values are stored as entered; no business
// rules are evaluated here.
package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

type budgetRepo interface {
	GetBudget(ctx context.Context, id uuid.UUID) (*domain.Budget, error)
	ListBudgets(ctx context.Context, f domain.BudgetFilter) ([]domain.Budget, error)
	CreateBudget(ctx context.Context, b *domain.Budget) error
	UpdateBudget(ctx context.Context, id uuid.UUID, p domain.BudgetUpdateParams, at time.Time) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.ForecastTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.ForecastTemplate, error)
	CreateTemplate(ctx context.Context, t *domain.ForecastTemplate) error
	UpdateTemplate(ctx context.Context, t *domain.ForecastTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

type settingRepo interface {
	GetGroup(ctx context.Context, group domain.SettingsGroup) ([]domain.Setting, error)
	Upsert(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap, updatedBy uuid.UUID, at time.Time) error
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements back-office settings operations.
type Service struct {
	log      *slog.Logger
	budgets  budgetRepo
	settings settingRepo
	audit    auditLogger
	tx       txManager
}

// NewService creates a new settings service.
func NewService(logger *slog.Logger, budgets budgetRepo, settings settingRepo, audit auditLogger, tx txManager) *Service {
	return &Service{
		log:      logger.With("service", "settings"),
		budgets:  budgets,
		settings: settings,
		audit:    audit,
		tx:       tx,
	}
}
