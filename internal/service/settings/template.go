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

// ListForecastTemplates returns all templates ordered by name.
func (s *Service) ListForecastTemplates(ctx context.Context) ([]domain.ForecastTemplate, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	templates, err := s.budgets.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("settings.ListForecastTemplates: %w", err)
	}
	return templates, nil
}

// CreateForecastTemplate stores a new template.
func (s *Service) CreateForecastTemplate(ctx context.Context, input TemplateInput) (*domain.ForecastTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	t := &domain.ForecastTemplate{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Periods:   input.Periods,
		Method:    input.Method,
		Lines:     cleanLines(input.Lines),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.CreateTemplate(txCtx, t); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeForecastTemplate,
			EntityID:   &t.ID,
			Action:     domain.AuditActionCreate,
			Changes:    map[string]any{"name": t.Name, "method": t.Method.String(), "periods": t.Periods},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("settings.CreateForecastTemplate: %w", err)
	}

	s.log.InfoContext(ctx, "forecast template created",
		slog.String("user_id", userID.String()),
		slog.String("template_id", t.ID.String()))
	return t, nil
}

// UpdateForecastTemplate overwrites the editable fields of a template.
func (s *Service) UpdateForecastTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*domain.ForecastTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var t *domain.ForecastTemplate
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		t, err = s.budgets.GetTemplate(txCtx, id)
		if err != nil {
			return err
		}
		t.Name = strings.TrimSpace(input.Name)
		t.Periods = input.Periods
		t.Method = input.Method
		t.Lines = cleanLines(input.Lines)
		t.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

		if err := s.budgets.UpdateTemplate(txCtx, t); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeForecastTemplate,
			EntityID:   &id,
			Action:     domain.AuditActionUpdate,
			Changes:    map[string]any{"name": t.Name, "method": t.Method.String(), "periods": t.Periods, "lines": len(t.Lines)},
			CreatedAt:  t.UpdatedAt,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("settings.UpdateForecastTemplate: %w", err)
	}

	s.log.InfoContext(ctx, "forecast template updated",
		slog.String("user_id", userID.String()),
		slog.String("template_id", id.String()))
	return t, nil
}

// DeleteForecastTemplate removes a template. Returns domain.ErrConflict while
// a budget references it.
func (s *Service) DeleteForecastTemplate(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.budgets.DeleteTemplate(txCtx, id); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeForecastTemplate,
			EntityID:   &id,
			Action:     domain.AuditActionDelete,
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("settings.DeleteForecastTemplate: %w", err)
	}

	s.log.InfoContext(ctx, "forecast template deleted",
		slog.String("user_id", userID.String()),
		slog.String("template_id", id.String()))
	return nil
}

func cleanLines(lines []domain.ForecastLine) []domain.ForecastLine {
	out := make([]domain.ForecastLine, len(lines))
	for i, l := range lines {
		out[i] = domain.ForecastLine{Label: strings.TrimSpace(l.Label), Weight: l.Weight}
	}
	return out
}
