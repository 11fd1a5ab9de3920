package chatclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// TypingThrottle is the minimum interval between typing indicators.
const TypingThrottle = 2 * time.Second

// ComposerHandlers are the callbacks a Composer delegates to.
type ComposerHandlers struct {
	OnSendMessage    func(ctx context.Context, content string) error
	OnReplyToMessage func(ctx context.Context, parentID uuid.UUID, content string) error
	OnTyping         func(ctx context.Context) error
}

// SessionHandlers wires a composer to a session.
func SessionHandlers(s *Session) ComposerHandlers {
	return ComposerHandlers{
		OnSendMessage:    s.SendMessage,
		OnReplyToMessage: s.ReplyToMessage,
		OnTyping:         s.SendTypingIndicator,
	}
}

// Composer is the message input: throttled typing signals, the reply banner
// and submission.
type Composer struct {
	h        ComposerHandlers
	clock    clockwork.Clock
	throttle time.Duration

	mu         sync.Mutex
	lastTyping time.Time
	replyingTo *domain.Message
}

// NewComposer creates a composer with the default typing throttle.
func NewComposer(h ComposerHandlers, clock clockwork.Clock) *Composer {
	return &Composer{h: h, clock: clock, throttle: TypingThrottle}
}

// Keystroke sends a typing indicator unless one was sent within the
// throttle window. It reports whether an indicator was sent.
func (c *Composer) Keystroke(ctx context.Context) bool {
	now := c.clock.Now()

	c.mu.Lock()
	if !c.lastTyping.IsZero() && now.Sub(c.lastTyping) < c.throttle {
		c.mu.Unlock()
		return false
	}
	c.lastTyping = now
	c.mu.Unlock()

	if c.h.OnTyping != nil {
		_ = c.h.OnTyping(ctx)
	}
	return true
}

// SetReplyingTo shows the reply banner for msg.
func (c *Composer) SetReplyingTo(msg domain.Message) {
	c.mu.Lock()
	c.replyingTo = &msg
	c.mu.Unlock()
}

// ClearReply hides the reply banner.
func (c *Composer) ClearReply() {
	c.mu.Lock()
	c.replyingTo = nil
	c.mu.Unlock()
}

// ReplyingTo returns the message being replied to, if any.
func (c *Composer) ReplyingTo() (domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replyingTo == nil {
		return domain.Message{}, false
	}
	return *c.replyingTo, true
}

// Submit sends content. With a reply banner set the content goes to the
// thread and the banner is cleared; a failed reply keeps the banner.
func (c *Composer) Submit(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.NewValidationError("content", "required")
	}

	c.mu.Lock()
	var parentID *uuid.UUID
	if c.replyingTo != nil {
		id := c.replyingTo.ID
		parentID = &id
	}
	c.mu.Unlock()

	if parentID == nil {
		return c.h.OnSendMessage(ctx, content)
	}
	if err := c.h.OnReplyToMessage(ctx, *parentID, content); err != nil {
		return err
	}
	c.ClearReply()
	return nil
}
