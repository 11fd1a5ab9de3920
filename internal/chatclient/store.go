package chatclient

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// ChangeKind tells listeners which slice of the store changed.
type ChangeKind int

const (
	ChangeChannels ChangeKind = iota + 1
	ChangeMessages
	ChangeReceipts
	ChangeMembers
	ChangeTyping
	ChangeProfiles
)

// Change is delivered to listeners after an action was applied.
// ChannelID is uuid.Nil for changes not scoped to one channel.
type Change struct {
	Kind      ChangeKind
	ChannelID uuid.UUID
	MessageID uuid.UUID
}

// Action is a state transition of the Store.
type Action interface {
	apply(s *state) (Change, bool)
}

// ChannelsLoaded replaces the channel list.
type ChannelsLoaded struct{ Channels []domain.Channel }

// ChannelUpserted inserts or replaces one channel.
type ChannelUpserted struct{ Channel domain.Channel }

// ChannelRemoved drops a channel with everything scoped to it.
type ChannelRemoved struct{ ChannelID uuid.UUID }

// ChannelActivity records a message posted in a channel that is not open:
// the preview moves and the unread count grows.
type ChannelActivity struct{ Message domain.Message }

// ChannelSeen clears the unread count of a channel.
type ChannelSeen struct{ ChannelID uuid.UUID }

// MessagesLoaded merges a fetched page or thread into the store. A fetched
// copy never undoes a newer local state: deleted messages stay deleted and a
// later edit is kept.
type MessagesLoaded struct {
	ChannelID uuid.UUID
	Messages  []domain.Message
}

// MessageAppended adds a new message. Appending a known id is a no-op so the
// realtime echo of a local write never duplicates it.
type MessageAppended struct{ Message domain.Message }

// MessageUpdated replaces a known message (edit, reaction). Unknown ids are
// ignored.
type MessageUpdated struct{ Message domain.Message }

// MessageRemoved marks a message as soft-deleted.
type MessageRemoved struct {
	MessageID uuid.UUID
	At        time.Time
}

// ReceiptsLoaded merges fetched receipts into those already known.
type ReceiptsLoaded struct {
	ChannelID uuid.UUID
	ByMessage map[uuid.UUID][]domain.ReadReceipt
}

// ReceiptAdded records one receipt; repeated receipts are ignored.
type ReceiptAdded struct{ Receipt domain.ReadReceipt }

// MembersLoaded replaces the member list of a channel.
type MembersLoaded struct {
	ChannelID uuid.UUID
	Members   []domain.ChannelMember
}

// TypingChanged applies a typing signal. ReceivedAt is the local clock time
// used for expiry.
type TypingChanged struct {
	State      domain.TypingState
	ReceivedAt time.Time
}

// ProfilesLoaded caches display profiles.
type ProfilesLoaded struct{ Profiles []domain.Profile }

// TypingEntry is a user currently composing in a channel.
type TypingEntry struct {
	UserID uuid.UUID
	Since  time.Time
}

type state struct {
	channels map[uuid.UUID]domain.Channel
	messages map[uuid.UUID]domain.Message
	receipts map[uuid.UUID][]domain.ReadReceipt // by message
	members  map[uuid.UUID][]domain.ChannelMember
	typing   map[uuid.UUID][]TypingEntry // by channel, arrival order
	profiles map[uuid.UUID]domain.Profile
}

// Store is the single client-side state container. It is mutated only through
// Dispatch and is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	st        state
	listeners []func(Change)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: state{
		channels: make(map[uuid.UUID]domain.Channel),
		messages: make(map[uuid.UUID]domain.Message),
		receipts: make(map[uuid.UUID][]domain.ReadReceipt),
		members:  make(map[uuid.UUID][]domain.ChannelMember),
		typing:   make(map[uuid.UUID][]TypingEntry),
		profiles: make(map[uuid.UUID]domain.Profile),
	}}
}

// OnChange registers a listener called after every effective dispatch.
// Listeners run on the dispatching goroutine, outside the store lock.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Dispatch applies an action and notifies listeners if anything changed.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	change, changed := a.apply(&s.st)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(change)
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Channels returns all channels, most recently active first.
func (s *Store) Channels() []domain.Channel {
	s.mu.RLock()
	out := make([]domain.Channel, 0, len(s.st.channels))
	for _, ch := range s.st.channels {
		out = append(out, ch)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Channel) int {
		at, bt := activity(a), activity(b)
		if c := bt.Compare(at); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func activity(ch domain.Channel) time.Time {
	if ch.LastActivityAt != nil {
		return *ch.LastActivityAt
	}
	return ch.CreatedAt
}

// Channel returns a channel by id.
func (s *Store) Channel(id uuid.UUID) (domain.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.st.channels[id]
	return ch, ok
}

// Message returns a message by id.
func (s *Store) Message(id uuid.UUID) (domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.st.messages[id]
	return m, ok
}

// Messages returns the top-level messages of a channel in creation order.
func (s *Store) Messages(channelID uuid.UUID) []domain.Message {
	return s.collect(func(m domain.Message) bool {
		return m.ChannelID == channelID && m.ParentID == nil
	})
}

// Thread returns the replies to parentID in creation order.
func (s *Store) Thread(parentID uuid.UUID) []domain.Message {
	return s.collect(func(m domain.Message) bool {
		return m.ParentID != nil && *m.ParentID == parentID
	})
}

func (s *Store) collect(keep func(domain.Message) bool) []domain.Message {
	s.mu.RLock()
	var out []domain.Message
	for _, m := range s.st.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// Receipts returns the receipts of a message ordered by read time.
func (s *Store) Receipts(messageID uuid.UUID) []domain.ReadReceipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.st.receipts[messageID])
}

// Members returns the members of a channel.
func (s *Store) Members(channelID uuid.UUID) []domain.ChannelMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.st.members[channelID])
}

// Typing returns the users composing in a channel in arrival order.
func (s *Store) Typing(channelID uuid.UUID) []TypingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.st.typing[channelID])
}

// Profile returns a cached profile.
func (s *Store) Profile(userID uuid.UUID) (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.st.profiles[userID]
	return p, ok
}

// ---------------------------------------------------------------------------
// Actions
// ---------------------------------------------------------------------------

func (a ChannelsLoaded) apply(s *state) (Change, bool) {
	clear(s.channels)
	for _, ch := range a.Channels {
		s.channels[ch.ID] = ch
	}
	return Change{Kind: ChangeChannels}, true
}

func (a ChannelUpserted) apply(s *state) (Change, bool) {
	s.channels[a.Channel.ID] = a.Channel
	return Change{Kind: ChangeChannels, ChannelID: a.Channel.ID}, true
}

func (a ChannelRemoved) apply(s *state) (Change, bool) {
	if _, ok := s.channels[a.ChannelID]; !ok {
		return Change{}, false
	}
	delete(s.channels, a.ChannelID)
	delete(s.members, a.ChannelID)
	delete(s.typing, a.ChannelID)
	for id, m := range s.messages {
		if m.ChannelID == a.ChannelID {
			delete(s.messages, id)
			delete(s.receipts, id)
		}
	}
	return Change{Kind: ChangeChannels, ChannelID: a.ChannelID}, true
}

func (a ChannelActivity) apply(s *state) (Change, bool) {
	m := a.Message
	ch, ok := s.channels[m.ChannelID]
	if !ok {
		return Change{}, false
	}
	if m.ParentID == nil {
		preview := m.Preview()
		ch.LastMessagePreview = &preview
	}
	if at := m.CreatedAt; ch.LastActivityAt == nil || at.After(*ch.LastActivityAt) {
		ch.LastActivityAt = &at
	}
	ch.UnreadCount++
	s.channels[ch.ID] = ch
	return Change{Kind: ChangeChannels, ChannelID: ch.ID}, true
}

func (a ChannelSeen) apply(s *state) (Change, bool) {
	ch, ok := s.channels[a.ChannelID]
	if !ok || ch.UnreadCount == 0 {
		return Change{}, false
	}
	ch.UnreadCount = 0
	s.channels[ch.ID] = ch
	return Change{Kind: ChangeChannels, ChannelID: ch.ID}, true
}

func (a MessagesLoaded) apply(s *state) (Change, bool) {
	for _, m := range a.Messages {
		if known, ok := s.messages[m.ID]; ok {
			m = mergeFetched(known, m)
		}
		s.messages[m.ID] = m
	}
	return Change{Kind: ChangeMessages, ChannelID: a.ChannelID}, true
}

// mergeFetched picks between a known message and a fetched copy of it.
func mergeFetched(known, fetched domain.Message) domain.Message {
	if known.IsDeleted() && !fetched.IsDeleted() {
		return known
	}
	if known.EditedAt != nil && (fetched.EditedAt == nil || known.EditedAt.After(*fetched.EditedAt)) {
		fetched.Content = known.Content
		fetched.EditedAt = known.EditedAt
	}
	fetched.ReplyCount = max(fetched.ReplyCount, known.ReplyCount)
	return fetched
}

func (a MessageAppended) apply(s *state) (Change, bool) {
	m := a.Message
	if _, ok := s.messages[m.ID]; ok {
		return Change{}, false
	}
	s.messages[m.ID] = m

	if m.ParentID != nil {
		if parent, ok := s.messages[*m.ParentID]; ok {
			parent.ReplyCount++
			s.messages[parent.ID] = parent
		}
	} else if ch, ok := s.channels[m.ChannelID]; ok {
		preview, at := m.Preview(), m.CreatedAt
		ch.LastMessagePreview = &preview
		if ch.LastActivityAt == nil || at.After(*ch.LastActivityAt) {
			ch.LastActivityAt = &at
		}
		s.channels[ch.ID] = ch
	}

	// A new message ends the sender's typing signal.
	s.typing[m.ChannelID] = removeTyping(s.typing[m.ChannelID], m.SenderID)
	return Change{Kind: ChangeMessages, ChannelID: m.ChannelID, MessageID: m.ID}, true
}

func (a MessageUpdated) apply(s *state) (Change, bool) {
	if _, ok := s.messages[a.Message.ID]; !ok {
		return Change{}, false
	}
	s.messages[a.Message.ID] = a.Message
	return Change{Kind: ChangeMessages, ChannelID: a.Message.ChannelID, MessageID: a.Message.ID}, true
}

func (a MessageRemoved) apply(s *state) (Change, bool) {
	m, ok := s.messages[a.MessageID]
	if !ok || m.IsDeleted() {
		return Change{}, false
	}
	at := a.At
	m.DeletedAt = &at
	m.Content = ""
	m.Attachments = nil
	m.Voice = nil
	s.messages[m.ID] = m
	return Change{Kind: ChangeMessages, ChannelID: m.ChannelID, MessageID: m.ID}, true
}

func (a ReceiptsLoaded) apply(s *state) (Change, bool) {
	for id, rs := range a.ByMessage {
		merged := slices.Clone(s.receipts[id])
		for _, r := range rs {
			if !slices.ContainsFunc(merged, func(e domain.ReadReceipt) bool { return e.UserID == r.UserID }) {
				merged = append(merged, r)
			}
		}
		s.receipts[id] = sortReceipts(merged)
	}
	return Change{Kind: ChangeReceipts, ChannelID: a.ChannelID}, true
}

func (a ReceiptAdded) apply(s *state) (Change, bool) {
	r := a.Receipt
	list := s.receipts[r.MessageID]
	for _, existing := range list {
		if existing.UserID == r.UserID {
			return Change{}, false
		}
	}
	s.receipts[r.MessageID] = sortReceipts(append(list, r))
	return Change{Kind: ChangeReceipts, ChannelID: r.ChannelID, MessageID: r.MessageID}, true
}

func sortReceipts(rs []domain.ReadReceipt) []domain.ReadReceipt {
	slices.SortStableFunc(rs, func(a, b domain.ReadReceipt) int { return a.ReadAt.Compare(b.ReadAt) })
	return rs
}

func (a MembersLoaded) apply(s *state) (Change, bool) {
	s.members[a.ChannelID] = slices.Clone(a.Members)
	for _, m := range a.Members {
		if m.Profile != nil {
			s.profiles[m.UserID] = *m.Profile
		}
	}
	return Change{Kind: ChangeMembers, ChannelID: a.ChannelID}, true
}

func (a TypingChanged) apply(s *state) (Change, bool) {
	ch, user := a.State.ChannelID, a.State.UserID
	list := s.typing[ch]
	if !a.State.IsTyping {
		next := removeTyping(list, user)
		if len(next) == len(list) {
			return Change{}, false
		}
		s.typing[ch] = next
		return Change{Kind: ChangeTyping, ChannelID: ch}, true
	}

	for i, e := range list {
		if e.UserID == user {
			list[i].Since = a.ReceivedAt
			return Change{Kind: ChangeTyping, ChannelID: ch}, true
		}
	}
	s.typing[ch] = append(list, TypingEntry{UserID: user, Since: a.ReceivedAt})
	return Change{Kind: ChangeTyping, ChannelID: ch}, true
}

func removeTyping(list []TypingEntry, user uuid.UUID) []TypingEntry {
	return slices.DeleteFunc(slices.Clone(list), func(e TypingEntry) bool { return e.UserID == user })
}

func (a ProfilesLoaded) apply(s *state) (Change, bool) {
	if len(a.Profiles) == 0 {
		return Change{}, false
	}
	for _, p := range a.Profiles {
		s.profiles[p.UserID] = p
	}
	return Change{Kind: ChangeProfiles}, true
}
