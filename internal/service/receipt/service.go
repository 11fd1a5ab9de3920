// Package receipt records which messages a user has seen.
package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

const maxMarkBatch = 500

type receiptRepo interface {
	MarkRead(ctx context.Context, userID uuid.UUID, messageIDs []uuid.UUID, at time.Time) ([]domain.ReadReceipt, error)
	ListForChannel(ctx context.Context, channelID uuid.UUID) ([]domain.ReadReceipt, error)
}

type permissions interface {
	CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
}

type publisher interface {
	Publish(ctx context.Context, ev domain.Event, notify ...uuid.UUID)
}

// Service implements read receipt operations.
type Service struct {
	log      *slog.Logger
	receipts receiptRepo
	perms    permissions
	events   publisher
}

// NewService creates a new receipt service.
func NewService(logger *slog.Logger, receipts receiptRepo, perms permissions, events publisher) *Service {
	return &Service{
		log:      logger.With("service", "receipt"),
		receipts: receipts,
		perms:    perms,
		events:   events,
	}
}

// MarkRead records receipts for the given messages. Own messages, deleted
// messages, messages outside the caller's channels and already read messages
// are skipped silently. Returns the receipts created by this call.
func (s *Service) MarkRead(ctx context.Context, messageIDs []uuid.UUID) ([]domain.ReadReceipt, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if len(messageIDs) > maxMarkBatch {
		return nil, domain.NewValidationError("message_ids", "too many messages")
	}

	ids := make([]uuid.UUID, 0, len(messageIDs))
	seen := make(map[uuid.UUID]struct{}, len(messageIDs))
	for _, id := range messageIDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	created, err := s.receipts.MarkRead(ctx, userID, ids, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("receipt.MarkRead: %w", err)
	}

	for i := range created {
		r := created[i]
		s.events.Publish(ctx, domain.Event{
			ChannelID: r.ChannelID,
			Kind:      domain.EventReceiptCreated,
			Receipt:   &r,
			MessageID: &r.MessageID,
			At:        r.ReadAt,
		}, userID)
	}

	if len(created) > 0 {
		s.log.DebugContext(ctx, "messages marked read",
			slog.String("user_id", userID.String()),
			slog.Int("count", len(created)))
	}
	return created, nil
}

// ListForChannel returns the receipts of a readable channel grouped by
// message id.
func (s *Service) ListForChannel(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error) {
	if _, err := s.perms.CanRead(ctx, channelID); err != nil {
		return nil, fmt.Errorf("receipt.ListForChannel: %w", err)
	}

	list, err := s.receipts.ListForChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("receipt.ListForChannel: %w", err)
	}

	out := make(map[uuid.UUID][]domain.ReadReceipt)
	for _, r := range list {
		out[r.MessageID] = append(out[r.MessageID], r)
	}
	return out, nil
}
