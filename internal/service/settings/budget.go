package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

// ListBudgets returns budgets matching the filter, newest fiscal year first.
func (s *Service) ListBudgets(ctx context.Context, f domain.BudgetFilter) ([]domain.Budget, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	budgets, err := s.budgets.ListBudgets(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("settings.ListBudgets: %w", err)
	}
	return budgets, nil
}

// GetBudget returns a budget by id.
func (s *Service) GetBudget(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	b, err := s.budgets.GetBudget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("settings.GetBudget: %w", err)
	}
	return b, nil
}

// CreateBudget stores a new budget. A referenced template must exist.
func (s *Service) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := &domain.Budget{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		FiscalYear: input.FiscalYear,
		Amount:     input.Amount,
		Currency:   strings.ToUpper(strings.TrimSpace(input.Currency)),
		TemplateID: input.TemplateID,
		Notes:      input.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.CreateBudget(txCtx, b); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeBudget,
			EntityID:   &b.ID,
			Action:     domain.AuditActionCreate,
			Changes: map[string]any{
				"name":        b.Name,
				"fiscal_year": b.FiscalYear,
				"amount":      b.Amount,
				"currency":    b.Currency,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("settings.CreateBudget: %w", err)
	}

	s.log.InfoContext(ctx, "budget created",
		slog.String("user_id", userID.String()),
		slog.String("budget_id", b.ID.String()))

	return b, nil
}

// UpdateBudget applies a partial update and returns the stored budget.
func (s *Service) UpdateBudget(ctx context.Context, id uuid.UUID, input UpdateBudgetInput) (*domain.Budget, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	var updated *domain.Budget
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.UpdateBudget(txCtx, id, input.params(), now); err != nil {
			return err
		}
		if err := s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeBudget,
			EntityID:   &id,
			Action:     domain.AuditActionUpdate,
			Changes:    budgetChanges(input),
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		var err error
		updated, err = s.budgets.GetBudget(txCtx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("settings.UpdateBudget: %w", err)
	}

	s.log.InfoContext(ctx, "budget updated",
		slog.String("user_id", userID.String()),
		slog.String("budget_id", id.String()))

	return updated, nil
}

// DeleteBudget removes a budget.
func (s *Service) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.DeleteBudget(txCtx, id); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeBudget,
			EntityID:   &id,
			Action:     domain.AuditActionDelete,
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("settings.DeleteBudget: %w", err)
	}

	s.log.InfoContext(ctx, "budget deleted",
		slog.String("user_id", userID.String()),
		slog.String("budget_id", id.String()))
	return nil
}

func budgetChanges(input UpdateBudgetInput) map[string]any {
	changes := make(map[string]any)
	if input.Name != nil {
		changes["name"] = strings.TrimSpace(*input.Name)
	}
	if input.FiscalYear != nil {
		changes["fiscal_year"] = *input.FiscalYear
	}
	if input.Amount != nil {
		changes["amount"] = *input.Amount
	}
	if input.Currency != nil {
		changes["currency"] = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	switch {
	case input.ClearTemplate:
		changes["template_id"] = nil
	case input.TemplateID != nil:
		changes["template_id"] = input.TemplateID.String()
	}
	if input.Notes != nil {
		changes["notes"] = *input.Notes
	}
	return changes
}
