package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

// GetSettings returns the key/value view of a settings group. Unknown keys
// are simply absent; callers apply their own defaults.
func (s *Service) GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if !group.IsValid() {
		return nil, domain.NewValidationError("group", "unknown settings group")
	}

	rows, err := s.settings.GetGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("settings.GetSettings: %w", err)
	}
	out := make(domain.SettingsMap, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// SaveSettings upserts every key of values in one transaction and returns
// the full group afterwards.
func (s *Service) SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !group.IsValid() {
		return nil, domain.NewValidationError("group", "unknown settings group")
	}
	if err := validateSettings(values); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC().Truncate(time.Microsecond)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.settings.Upsert(txCtx, group, values, userID, now); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeSettings,
			Action:     domain.AuditActionUpdate,
			Changes:    map[string]any{"group": group.String(), "keys": keys},
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("settings.SaveSettings: %w", err)
	}

	s.log.InfoContext(ctx, "settings saved",
		slog.String("user_id", userID.String()),
		slog.String("group", group.String()),
		slog.Int("keys", len(keys)))

	return s.GetSettings(ctx, group)
}
