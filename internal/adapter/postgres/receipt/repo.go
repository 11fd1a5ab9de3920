// Package receipt implements the read receipt repository using PostgreSQL.
package receipt

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// markReadSQL inserts receipts for messages the reader may mark: not their
// own, not deleted, and in a channel they are a member of. Existing receipts
// keep their original read_at.
const markReadSQL = `
WITH ins AS (
	INSERT INTO read_receipts (message_id, user_id, read_at)
	SELECT m.id, $1::uuid, $2::timestamptz
	FROM messages m
	JOIN channel_members cm ON cm.channel_id = m.channel_id AND cm.user_id = $1::uuid
	WHERE m.id = ANY($3::uuid[]) AND m.sender_id <> $1::uuid AND m.deleted_at IS NULL
	ON CONFLICT (message_id, user_id) DO NOTHING
	RETURNING message_id, user_id, read_at
)
SELECT ins.message_id, m.channel_id, ins.user_id, ins.read_at
FROM ins
JOIN messages m ON m.id = ins.message_id
ORDER BY m.created_at, ins.message_id`

// Repo provides read receipt persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new receipt repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// MarkRead records that userID has read messageIDs and returns only the
// receipts created by this call.
func (r *Repo) MarkRead(ctx context.Context, userID uuid.UUID, messageIDs []uuid.UUID, at time.Time) ([]domain.ReadReceipt, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	var rows []receiptRow
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, markReadSQL, userID, at, messageIDs)
	if err != nil {
		return nil, postgres.MapError(err, "receipt", userID)
	}
	return toDomain(rows), nil
}

// ListForChannel returns all receipts on messages of a channel.
func (r *Repo) ListForChannel(ctx context.Context, channelID uuid.UUID) ([]domain.ReadReceipt, error) {
	q := postgres.Builder().
		Select("rr.message_id", "m.channel_id", "rr.user_id", "rr.read_at").
		From("read_receipts rr").
		Join("messages m ON m.id = rr.message_id").
		Where(squirrel.Eq{"m.channel_id": channelID}).
		OrderBy("rr.read_at", "rr.message_id")

	var rows []receiptRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "receipt", channelID)
	}
	return toDomain(rows), nil
}

type receiptRow struct {
	MessageID uuid.UUID `db:"message_id"`
	ChannelID uuid.UUID `db:"channel_id"`
	UserID    uuid.UUID `db:"user_id"`
	ReadAt    time.Time `db:"read_at"`
}

func toDomain(rows []receiptRow) []domain.ReadReceipt {
	out := make([]domain.ReadReceipt, len(rows))
	for i, row := range rows {
		out[i] = domain.ReadReceipt{
			MessageID: row.MessageID,
			ChannelID: row.ChannelID,
			UserID:    row.UserID,
			ReadAt:    row.ReadAt,
		}
	}
	return out
}
