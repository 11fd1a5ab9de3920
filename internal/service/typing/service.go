// Package typing relays ephemeral "user is composing" signals. Nothing is
// persisted; clients expire indicators on their own.
package typing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

type permissions interface {
	RequireMember(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
}

type publisher interface {
	Publish(ctx context.Context, ev domain.Event, notify ...uuid.UUID)
}

// Service publishes typing events.
type Service struct {
	perms  permissions
	events publisher
	clock  clockwork.Clock
}

// NewService creates a new typing service. A nil clock means the real clock.
func NewService(perms permissions, events publisher, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{perms: perms, events: events, clock: clock}
}

// SetTyping broadcasts the caller's typing state to the channel.
func (s *Service) SetTyping(ctx context.Context, channelID uuid.UUID, isTyping bool) error {
	access, err := s.perms.RequireMember(ctx, channelID)
	if err != nil {
		return fmt.Errorf("typing.SetTyping: %w", err)
	}

	now := s.clock.Now().UTC()
	s.events.Publish(ctx, domain.Event{
		ChannelID: channelID,
		Kind:      domain.EventTyping,
		Typing: &domain.TypingState{
			ChannelID: channelID,
			UserID:    access.UserID,
			IsTyping:  isTyping,
			At:        now,
		},
		At: now,
	})
	return nil
}
