// Package message implements the Message repository using PostgreSQL.
//
// Reactions, attachments and the voice payload are stored as JSONB columns
// and decoded into domain slices on read.
package message

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var messageColumns = []string{
	"m.id", "m.channel_id", "m.sender_id", "m.content", "m.type", "m.parent_id",
	"m.reactions", "m.attachments", "m.voice", "m.created_at", "m.edited_at", "m.deleted_at",
}

const replyCountColumn = "(SELECT count(*) FROM messages r WHERE r.parent_id = m.id AND r.deleted_at IS NULL) AS reply_count"

// Repo provides message persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new message repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func selectMessages() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(messageColumns...).
		Column(replyCountColumn).
		From("messages m")
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a message including soft-deleted ones.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	return r.get(ctx, selectMessages().Where(squirrel.Eq{"m.id": id}), id)
}

// GetForUpdate returns a message and locks its row until the surrounding
// transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	q := postgres.Builder().
		Select(messageColumns...).
		Column("0 AS reply_count").
		From("messages m").
		Where(squirrel.Eq{"m.id": id}).
		Suffix("FOR UPDATE")
	return r.get(ctx, q, id)
}

func (r *Repo) get(ctx context.Context, q squirrel.SelectBuilder, id uuid.UUID) (*domain.Message, error) {
	var row messageRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "message", id)
	}
	msg, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns up to p.Limit top-level messages older than p.Before,
// oldest first. The newest page is returned when Before is nil.
func (r *Repo) List(ctx context.Context, p domain.MessageFilter) ([]domain.Message, error) {
	q := selectMessages().
		Where(squirrel.Eq{"m.channel_id": p.ChannelID, "m.parent_id": nil}).
		OrderBy("m.created_at DESC", "m.id DESC").
		Limit(uint64(p.Limit))

	if p.Before != nil {
		q = q.Where(squirrel.Lt{"m.created_at": *p.Before})
	}
	if p.Search != "" {
		q = q.Where(squirrel.ILike{"m.content": postgres.ContainsPattern(p.Search)}).
			Where(squirrel.Eq{"m.deleted_at": nil})
	}

	msgs, err := r.selectMany(ctx, q, p.ChannelID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// ListReplies returns the replies of a thread parent, oldest first.
func (r *Repo) ListReplies(ctx context.Context, parentID uuid.UUID) ([]domain.Message, error) {
	q := selectMessages().
		Where(squirrel.Eq{"m.parent_id": parentID}).
		OrderBy("m.created_at", "m.id")
	return r.selectMany(ctx, q, parentID)
}

func (r *Repo) selectMany(ctx context.Context, q squirrel.SelectBuilder, ref any) ([]domain.Message, error) {
	var rows []messageRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "message", ref)
	}

	out := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		msg, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a message.
func (r *Repo) Create(ctx context.Context, m *domain.Message) error {
	reactions, attachments, voice, err := encodePayload(m)
	if err != nil {
		return err
	}

	q := postgres.Builder().
		Insert("messages").
		Columns("id", "channel_id", "sender_id", "content", "type", "parent_id",
			"reactions", "attachments", "voice", "created_at").
		Values(m.ID, m.ChannelID, m.SenderID, m.Content, string(m.Type), m.ParentID,
			reactions, attachments, voice, m.CreatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "message", m.ID)
	}
	return nil
}

// UpdateContent replaces the text of a message and stamps edited_at.
func (r *Repo) UpdateContent(ctx context.Context, id uuid.UUID, content string, at time.Time) error {
	q := postgres.Builder().
		Update("messages").
		Set("content", content).
		Set("edited_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil})
	return r.execOne(ctx, q, id)
}

// SoftDelete clears content and media of a message and stamps deleted_at.
// Reactions are kept.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.Builder().
		Update("messages").
		Set("content", "").
		Set("attachments", squirrel.Expr("'[]'::jsonb")).
		Set("voice", nil).
		Set("deleted_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil})
	return r.execOne(ctx, q, id)
}

// SetReactions overwrites the reaction list of a message.
func (r *Repo) SetReactions(ctx context.Context, id uuid.UUID, reactions []domain.Reaction) error {
	if reactions == nil {
		reactions = []domain.Reaction{}
	}
	raw, err := json.Marshal(reactions)
	if err != nil {
		return fmt.Errorf("marshal reactions: %w", err)
	}

	q := postgres.Builder().
		Update("messages").
		Set("reactions", raw).
		Where(squirrel.Eq{"id": id})
	return r.execOne(ctx, q, id)
}

// HardDeleteSoftDeleted permanently removes messages soft-deleted before
// threshold. Returns the number of removed rows.
func (r *Repo) HardDeleteSoftDeleted(ctx context.Context, threshold time.Time) (int, error) {
	q := postgres.Builder().
		Delete("messages").
		Where(squirrel.Lt{"deleted_at": threshold})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return 0, postgres.MapError(err, "message", threshold)
	}
	return int(n), nil
}

func (r *Repo) execOne(ctx context.Context, q squirrel.Sqlizer, id uuid.UUID) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "message", id)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, "message", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type messageRow struct {
	ID          uuid.UUID  `db:"id"`
	ChannelID   uuid.UUID  `db:"channel_id"`
	SenderID    uuid.UUID  `db:"sender_id"`
	Content     string     `db:"content"`
	Type        string     `db:"type"`
	ParentID    *uuid.UUID `db:"parent_id"`
	Reactions   []byte     `db:"reactions"`
	Attachments []byte     `db:"attachments"`
	Voice       []byte     `db:"voice"`
	CreatedAt   time.Time  `db:"created_at"`
	EditedAt    *time.Time `db:"edited_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
	ReplyCount  int        `db:"reply_count"`
}

func (row messageRow) toDomain() (domain.Message, error) {
	msg := domain.Message{
		ID:          row.ID,
		ChannelID:   row.ChannelID,
		SenderID:    row.SenderID,
		Content:     row.Content,
		Type:        domain.MessageType(row.Type),
		CreatedAt:   row.CreatedAt,
		EditedAt:    row.EditedAt,
		DeletedAt:   row.DeletedAt,
		ParentID:    row.ParentID,
		ReplyCount:  row.ReplyCount,
		Reactions:   []domain.Reaction{},
		Attachments: []domain.Attachment{},
	}

	if len(row.Reactions) > 0 {
		if err := json.Unmarshal(row.Reactions, &msg.Reactions); err != nil {
			return domain.Message{}, fmt.Errorf("decode reactions of message %s: %w", row.ID, err)
		}
	}
	if len(row.Attachments) > 0 {
		if err := json.Unmarshal(row.Attachments, &msg.Attachments); err != nil {
			return domain.Message{}, fmt.Errorf("decode attachments of message %s: %w", row.ID, err)
		}
	}
	if len(row.Voice) > 0 && string(row.Voice) != "null" {
		var v domain.VoicePayload
		if err := json.Unmarshal(row.Voice, &v); err != nil {
			return domain.Message{}, fmt.Errorf("decode voice of message %s: %w", row.ID, err)
		}
		msg.Voice = &v
	}
	return msg, nil
}

func encodePayload(m *domain.Message) (reactions, attachments, voice []byte, err error) {
	rs := m.Reactions
	if rs == nil {
		rs = []domain.Reaction{}
	}
	if reactions, err = json.Marshal(rs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal reactions: %w", err)
	}

	as := m.Attachments
	if as == nil {
		as = []domain.Attachment{}
	}
	if attachments, err = json.Marshal(as); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal attachments: %w", err)
	}

	if m.Voice != nil {
		if voice, err = json.Marshal(m.Voice); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal voice: %w", err)
		}
	}
	return reactions, attachments, voice, nil
}
