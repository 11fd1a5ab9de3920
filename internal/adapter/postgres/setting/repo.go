// Package setting implements the key/value settings repository using PostgreSQL.
package setting

import (
	"context"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// Repo provides settings persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new settings repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetGroup returns all rows of a settings group ordered by key.
func (r *Repo) GetGroup(ctx context.Context, group domain.SettingsGroup) ([]domain.Setting, error) {
	q := postgres.Builder().
		Select("group_name", "key", "value", "updated_by", "updated_at").
		From("settings").
		Where(squirrel.Eq{"group_name": string(group)}).
		OrderBy("key")

	var rows []settingRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "settings", group)
	}

	out := make([]domain.Setting, len(rows))
	for i, row := range rows {
		out[i] = domain.Setting{
			Group:     domain.SettingsGroup(row.Group),
			Key:       row.Key,
			Value:     row.Value,
			UpdatedBy: row.UpdatedBy,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return out, nil
}

// Upsert writes every key of values into group with a single statement.
// Keys absent from values are left untouched.
func (r *Repo) Upsert(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap, updatedBy uuid.UUID, at time.Time) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := postgres.Builder().
		Insert("settings").
		Columns("group_name", "key", "value", "updated_by", "updated_at").
		Suffix("ON CONFLICT (group_name, key) DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at")

	for _, k := range keys {
		q = q.Values(string(group), k, values[k], updatedBy, at)
	}

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "settings", group)
	}
	return nil
}

type settingRow struct {
	Group     string    `db:"group_name"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedBy uuid.UUID `db:"updated_by"`
	UpdatedAt time.Time `db:"updated_at"`
}
