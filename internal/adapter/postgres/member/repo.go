// Package member implements the channel membership repository using PostgreSQL.
package member

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var memberColumns = []string{
	"cm.channel_id", "cm.user_id", "cm.role", "cm.joined_at",
	"u.display_name", "u.avatar_url",
}

// Repo provides channel membership persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new member repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func selectMembers() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(memberColumns...).
		From("channel_members cm").
		Join("users u ON u.id = cm.user_id")
}

// Get returns the membership of userID in channelID.
func (r *Repo) Get(ctx context.Context, channelID, userID uuid.UUID) (*domain.ChannelMember, error) {
	q := selectMembers().Where(squirrel.Eq{"cm.channel_id": channelID, "cm.user_id": userID})

	var row memberRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "member", userID)
	}
	m := row.toDomain()
	return &m, nil
}

// List returns the members of a channel with their profiles, owners first.
func (r *Repo) List(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	q := selectMembers().
		Where(squirrel.Eq{"cm.channel_id": channelID}).
		OrderBy("CASE cm.role WHEN 'owner' THEN 0 WHEN 'admin' THEN 1 ELSE 2 END", "cm.joined_at", "cm.user_id")

	var rows []memberRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "member", channelID)
	}

	out := make([]domain.ChannelMember, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// ListUserIDs returns the ids of all members of a channel.
func (r *Repo) ListUserIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error) {
	q := postgres.Builder().
		Select("user_id").
		From("channel_members").
		Where(squirrel.Eq{"channel_id": channelID})

	var ids []uuid.UUID
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, q); err != nil {
		return nil, postgres.MapError(err, "member", channelID)
	}
	return ids, nil
}

// Add inserts memberships. Users that are already members are skipped.
// Returns the number of memberships created.
func (r *Repo) Add(ctx context.Context, members []domain.ChannelMember) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}

	q := postgres.Builder().
		Insert("channel_members").
		Columns("channel_id", "user_id", "role", "joined_at").
		Suffix("ON CONFLICT (channel_id, user_id) DO NOTHING")

	for _, m := range members {
		joined := m.JoinedAt
		if joined.IsZero() {
			joined = time.Now().UTC()
		}
		q = q.Values(m.ChannelID, m.UserID, string(m.Role), joined)
	}

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return 0, postgres.MapError(err, "member", members[0].ChannelID)
	}
	return int(n), nil
}

// UpdateRole changes the role of an existing member.
func (r *Repo) UpdateRole(ctx context.Context, channelID, userID uuid.UUID, role domain.MemberRole) error {
	q := postgres.Builder().
		Update("channel_members").
		Set("role", string(role)).
		Where(squirrel.Eq{"channel_id": channelID, "user_id": userID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "member", userID)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, "member", userID)
	}
	return nil
}

// Remove deletes a membership.
func (r *Repo) Remove(ctx context.Context, channelID, userID uuid.UUID) error {
	q := postgres.Builder().
		Delete("channel_members").
		Where(squirrel.Eq{"channel_id": channelID, "user_id": userID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "member", userID)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, "member", userID)
	}
	return nil
}

// CountByRole returns how many members of channelID hold role.
func (r *Repo) CountByRole(ctx context.Context, channelID uuid.UUID, role domain.MemberRole) (int, error) {
	q := postgres.Builder().
		Select("count(*)").
		From("channel_members").
		Where(squirrel.Eq{"channel_id": channelID, "role": string(role)})

	var n int
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &n, q); err != nil {
		return 0, postgres.MapError(err, "member", channelID)
	}
	return n, nil
}

type memberRow struct {
	ChannelID   uuid.UUID `db:"channel_id"`
	UserID      uuid.UUID `db:"user_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
}

func (row memberRow) toDomain() domain.ChannelMember {
	return domain.ChannelMember{
		ChannelID: row.ChannelID,
		UserID:    row.UserID,
		Role:      domain.MemberRole(row.Role),
		JoinedAt:  row.JoinedAt,
		Profile: &domain.Profile{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			AvatarURL:   row.AvatarURL,
		},
	}
}
