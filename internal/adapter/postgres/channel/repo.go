// Package channel implements the Channel repository using PostgreSQL.
//
// Member and unread counts are computed on read: member_count over
// channel_members, unread_count over messages without a receipt of the
// viewing user.
package channel

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var baseColumns = []string{
	"c.id", "c.name", "c.type", "c.description", "c.is_public", "c.last_message_preview",
	"c.last_activity_at", "c.avatar_url", "c.created_by", "c.created_at", "c.updated_at",
}

const memberCountColumn = "(SELECT count(*) FROM channel_members cm WHERE cm.channel_id = c.id) AS member_count"

// unreadColumn counts messages from other users that viewer has no receipt
// for. Non-members have no unread messages.
const unreadColumn = `CASE WHEN EXISTS (SELECT 1 FROM channel_members me WHERE me.channel_id = c.id AND me.user_id = ?)
	THEN (SELECT count(*) FROM messages m
		WHERE m.channel_id = c.id AND m.deleted_at IS NULL AND m.sender_id <> ?
		AND NOT EXISTS (SELECT 1 FROM read_receipts rr WHERE rr.message_id = m.id AND rr.user_id = ?))
	ELSE 0 END AS unread_count`

var openTypes = []string{
	string(domain.ChannelTypePublic), string(domain.ChannelTypeProject), string(domain.ChannelTypeShift),
}

// Repo provides channel persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new channel repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func (r *Repo) selectChannels(viewer uuid.UUID) squirrel.SelectBuilder {
	return postgres.Builder().
		Select(baseColumns...).
		Column(memberCountColumn).
		Column(squirrel.Expr(unreadColumn, viewer, viewer, viewer)).
		From("channels c")
}

// GetByID returns a channel with counts computed for viewer.
func (r *Repo) GetByID(ctx context.Context, id, viewer uuid.UUID) (*domain.Channel, error) {
	q := r.selectChannels(viewer).Where(squirrel.Eq{"c.id": id})

	var row channelRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "channel", id)
	}
	ch := row.toDomain()
	return &ch, nil
}

// GetByDMKey returns the direct channel identified by the user pair key.
func (r *Repo) GetByDMKey(ctx context.Context, key string, viewer uuid.UUID) (*domain.Channel, error) {
	q := r.selectChannels(viewer).Where(squirrel.Eq{"c.dm_key": key})

	var row channelRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "channel", key)
	}
	ch := row.toDomain()
	return &ch, nil
}

// ListVisible returns the channels viewer is a member of plus all open
// channels, most recently active first.
func (r *Repo) ListVisible(ctx context.Context, viewer uuid.UUID) ([]domain.Channel, error) {
	q := r.selectChannels(viewer).
		Where(squirrel.Or{
			squirrel.Expr("EXISTS (SELECT 1 FROM channel_members v WHERE v.channel_id = c.id AND v.user_id = ?)", viewer),
			squirrel.Eq{"c.type": openTypes},
		}).
		OrderBy("c.last_activity_at DESC NULLS LAST", "c.created_at DESC", "c.id")

	var rows []channelRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "channel", viewer)
	}

	out := make([]domain.Channel, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a channel. dmKey is set only for direct channels and is
// unique per user pair.
func (r *Repo) Create(ctx context.Context, ch *domain.Channel, dmKey *string) error {
	q := postgres.Builder().
		Insert("channels").
		Columns("id", "name", "type", "description", "is_public", "avatar_url", "dm_key",
			"created_by", "created_at", "updated_at").
		Values(ch.ID, ch.Name, string(ch.Type), ch.Description, ch.IsPublic, ch.AvatarURL, dmKey,
			ch.CreatedBy, ch.CreatedAt, ch.UpdatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "channel", ch.ID)
	}
	return nil
}

// Update applies a partial update. Returns domain.ErrNotFound if the channel
// does not exist.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) error {
	q := postgres.Builder().
		Update("channels").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if p.Name != nil {
		q = q.Set("name", strings.TrimSpace(*p.Name))
	}
	if p.Description != nil {
		q = q.Set("description", postgres.NullIfEmpty(*p.Description))
	}
	if p.AvatarURL != nil {
		q = q.Set("avatar_url", postgres.NullIfEmpty(*p.AvatarURL))
	}
	if p.IsPublic != nil {
		q = q.Set("is_public", *p.IsPublic)
	}

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "channel", id)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, "channel", id)
	}
	return nil
}

// TouchActivity records the newest message preview and activity time.
// Older timestamps never overwrite newer ones.
func (r *Repo) TouchActivity(ctx context.Context, id uuid.UUID, preview string, at time.Time) error {
	q := postgres.Builder().
		Update("channels").
		Set("last_message_preview", preview).
		Set("last_activity_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"last_activity_at": nil},
			squirrel.LtOrEq{"last_activity_at": at},
		})

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "channel", id)
	}
	return nil
}

// Delete removes a channel with its members, messages and receipts.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().Delete("channels").Where(squirrel.Eq{"id": id})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "channel", id)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, "channel", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type channelRow struct {
	ID                 uuid.UUID  `db:"id"`
	Name               string     `db:"name"`
	Type               string     `db:"type"`
	Description        *string    `db:"description"`
	IsPublic           bool       `db:"is_public"`
	LastMessagePreview *string    `db:"last_message_preview"`
	LastActivityAt     *time.Time `db:"last_activity_at"`
	AvatarURL          *string    `db:"avatar_url"`
	CreatedBy          uuid.UUID  `db:"created_by"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	MemberCount        int        `db:"member_count"`
	UnreadCount        int        `db:"unread_count"`
}

func (row channelRow) toDomain() domain.Channel {
	return domain.Channel{
		ID:                 row.ID,
		Name:               row.Name,
		Type:               domain.ChannelType(row.Type),
		Description:        row.Description,
		IsPublic:           row.IsPublic,
		LastMessagePreview: row.LastMessagePreview,
		LastActivityAt:     row.LastActivityAt,
		UnreadCount:        row.UnreadCount,
		MemberCount:        row.MemberCount,
		AvatarURL:          row.AvatarURL,
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
