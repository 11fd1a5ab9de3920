package chatclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// TypingTTL is how long a typing signal stays visible without a fresh push.
const TypingTTL = 5 * time.Second

// Conversation is the message view of the active channel: typing names,
// read marking, search and receipt stacks.
type Conversation struct {
	session *Session
	ttl     time.Duration

	mu     sync.Mutex
	marked map[uuid.UUID]struct{}
}

// NewConversation creates the view for session's active channel.
func NewConversation(session *Session) *Conversation {
	return &Conversation{session: session, ttl: TypingTTL, marked: make(map[uuid.UUID]struct{})}
}

// Messages returns the top-level messages of the active channel.
func (c *Conversation) Messages() []domain.Message {
	ch, ok := c.session.Active()
	if !ok {
		return nil
	}
	return c.session.Store().Messages(ch.ID)
}

// Search filters the active channel's messages by content.
func (c *Conversation) Search(query string) []domain.Message {
	msgs := c.Messages()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return msgs
	}
	out := msgs[:0:0]
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	return out
}

// TypingUsers returns the other users composing in the active channel whose
// signal has not expired, in arrival order.
func (c *Conversation) TypingUsers() []uuid.UUID {
	ch, ok := c.session.Active()
	if !ok {
		return nil
	}
	now, me := c.session.Clock().Now(), c.session.CurrentUserID()
	var out []uuid.UUID
	for _, e := range c.session.Store().Typing(ch.ID) {
		if e.UserID == me || now.Sub(e.Since) >= c.ttl {
			continue
		}
		out = append(out, e.UserID)
	}
	return out
}

// TypingNames resolves TypingUsers to display names. Unknown users are
// fetched once with a single profile call and cached in the store; users
// whose profile cannot be loaded are skipped.
func (c *Conversation) TypingNames(ctx context.Context) []string {
	users := c.TypingUsers()
	store := c.session.Store()

	var missing []uuid.UUID
	for _, id := range users {
		if _, ok := store.Profile(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		profiles, err := c.session.Backend().GetProfiles(ctx, missing)
		if err == nil {
			store.Dispatch(ProfilesLoaded{Profiles: profiles})
		}
	}

	names := make([]string, 0, len(users))
	for _, id := range users {
		if p, ok := store.Profile(id); ok {
			names = append(names, p.DisplayName)
		}
	}
	return names
}

// MarkVisible records receipts for messages that became visible. Own
// messages and messages already marked are skipped; the rest go out in one
// call.
func (c *Conversation) MarkVisible(ctx context.Context, ids []uuid.UUID) error {
	me := c.session.CurrentUserID()
	store := c.session.Store()

	c.mu.Lock()
	var batch []uuid.UUID
	for _, id := range ids {
		if _, done := c.marked[id]; done {
			continue
		}
		m, ok := store.Message(id)
		if !ok || m.SenderID == me || m.IsDeleted() || hasReceipt(store.Receipts(id), me) {
			continue
		}
		c.marked[id] = struct{}{}
		batch = append(batch, id)
	}
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := c.session.MarkRead(ctx, batch); err != nil {
		c.mu.Lock()
		for _, id := range batch {
			delete(c.marked, id)
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

func hasReceipt(rs []domain.ReadReceipt, user uuid.UUID) bool {
	for _, r := range rs {
		if r.UserID == user {
			return true
		}
	}
	return false
}

// ReceiptStack is the avatar stack under a message.
type ReceiptStack struct {
	Readers  []domain.Profile
	Overflow int
}

// ReceiptStack returns up to limit readers of a message, excluding its sender,
// in read order. Readers without a cached profile carry only their id.
func (c *Conversation) ReceiptStack(messageID uuid.UUID, limit int) ReceiptStack {
	store := c.session.Store()
	m, ok := store.Message(messageID)
	if !ok {
		return ReceiptStack{}
	}

	var readers []domain.Profile
	for _, r := range store.Receipts(messageID) {
		if r.UserID == m.SenderID {
			continue
		}
		p, ok := store.Profile(r.UserID)
		if !ok {
			p = domain.Profile{UserID: r.UserID}
		}
		readers = append(readers, p)
	}

	if limit >= 0 && len(readers) > limit {
		return ReceiptStack{Readers: readers[:limit], Overflow: len(readers) - limit}
	}
	return ReceiptStack{Readers: readers}
}
