package chatclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/teamhub-backend/internal/chatclient/voice"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// ErrNoActiveChannel is returned by operations that need a selected channel.
var ErrNoActiveChannel = errors.New("chatclient: no active channel")

// Notifier surfaces failed operations to the user, like a toast.
type Notifier interface {
	Error(op string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(op string, err error)

func (f NotifierFunc) Error(op string, err error) { f(op, err) }

// Options configures a Session. Zero values select defaults.
type Options struct {
	Logger   *slog.Logger
	Notifier Notifier
	Clock    clockwork.Clock
	Buckets  Buckets
	PageSize int
}

// Session owns the active channel and the message mutations of the chat
// view. All fetched state goes into the Store; the session only keeps what is
// local to the view: the selection, the open thread and the details panel.
type Session struct {
	backend  Backend
	store    *Store
	seq      *Sequencer
	log      *slog.Logger
	notifier Notifier
	clock    clockwork.Clock
	buckets  Buckets
	pageSize int

	root   context.Context
	cancel context.CancelFunc
	pumps  sync.WaitGroup

	mu          sync.Mutex
	user        *domain.User
	active      uuid.UUID
	thread      uuid.UUID
	detailsOpen bool
	stopSub     context.CancelFunc
	subDone     chan struct{}
	watching    bool
}

// NewSession creates a session on top of backend and store.
func NewSession(backend Backend, store *Store, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string, error) {})
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Buckets == (Buckets{}) {
		opts.Buckets = DefaultBuckets
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}

	root, cancel := context.WithCancel(context.Background())
	return &Session{
		backend:  backend,
		store:    store,
		seq:      NewSequencer(opts.Clock),
		log:      opts.Logger.With("component", "chat_session"),
		notifier: opts.Notifier,
		clock:    opts.Clock,
		buckets:  opts.Buckets,
		pageSize: opts.PageSize,
		root:     root,
		cancel:   cancel,
	}
}

// Store returns the session's store.
func (s *Session) Store() *Store { return s.store }

// Backend returns the session's backend.
func (s *Session) Backend() Backend { return s.backend }

// Clock returns the session's clock.
func (s *Session) Clock() clockwork.Clock { return s.clock }

// fail reports err to the notifier and returns it wrapped with op.
func (s *Session) fail(op string, err error) error {
	s.notifier.Error(op, err)
	return fmt.Errorf("chatclient.%s: %w", op, err)
}

// Load fetches the current user and the channel list.
func (s *Session) Load(ctx context.Context) error {
	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		return s.fail("Load", err)
	}
	channels, err := s.backend.ListChannels(ctx)
	if err != nil {
		return s.fail("Load", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.store.Dispatch(ProfilesLoaded{Profiles: []domain.Profile{user.Profile()}})
	s.store.Dispatch(ChannelsLoaded{Channels: channels})
	s.watchNotifications()
	return nil
}

// watchNotifications follows events of channels other than the active one.
// Without it the sidebar would only learn about new channels and unread
// messages on the next Load.
func (s *Session) watchNotifications() {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return
	}
	s.watching = true
	s.mu.Unlock()

	notes, err := s.backend.Notifications(s.root)
	if err != nil {
		s.log.Warn("notifications unavailable", slog.String("error", err.Error()))
		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()
		return
	}

	s.pumps.Add(1)
	go func() {
		defer s.pumps.Done()
		defer func() {
			s.mu.Lock()
			s.watching = false
			s.mu.Unlock()
		}()
		for {
			select {
			case <-s.root.Done():
				return
			case ev, ok := <-notes:
				if !ok {
					return
				}
				s.applyNotification(ev)
			}
		}
	}()
}

// applyNotification updates the sidebar for a channel that is not open. The
// active channel is covered by its own sequenced stream.
func (s *Session) applyNotification(ev domain.Event) {
	s.mu.Lock()
	active := s.active == ev.ChannelID
	me := uuid.Nil
	if s.user != nil {
		me = s.user.ID
	}
	s.mu.Unlock()
	if active {
		return
	}

	switch ev.Kind {
	case domain.EventMessageCreated:
		if ev.Message != nil && ev.Message.SenderID != me {
			s.store.Dispatch(ChannelActivity{Message: *ev.Message})
		}
	case domain.EventChannelUpdated, domain.EventMemberChanged:
		if ev.Channel == nil {
			return
		}
		ch := *ev.Channel
		if known, ok := s.store.Channel(ch.ID); ok {
			// Per-viewer fields are not part of broadcast events.
			ch.UnreadCount = known.UnreadCount
			if ch.LastMessagePreview == nil {
				ch.LastMessagePreview = known.LastMessagePreview
			}
			if ch.LastActivityAt == nil {
				ch.LastActivityAt = known.LastActivityAt
			}
		}
		s.store.Dispatch(ChannelUpserted{Channel: ch})
	case domain.EventChannelDeleted:
		s.store.Dispatch(ChannelRemoved{ChannelID: ev.ChannelID})
	}
}

// CurrentUserID returns the logged-in user, or uuid.Nil before Load.
func (s *Session) CurrentUserID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return uuid.Nil
	}
	return s.user.ID
}

// Active returns the selected channel.
func (s *Session) Active() (domain.Channel, bool) {
	s.mu.Lock()
	id := s.active
	s.mu.Unlock()
	if id == uuid.Nil {
		return domain.Channel{}, false
	}
	return s.store.Channel(id)
}

func (s *Session) activeID() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == uuid.Nil {
		return uuid.Nil, ErrNoActiveChannel
	}
	return s.active, nil
}

// SelectChannel switches the active channel. The previous channel's
// subscription is cancelled, the details panel and any open thread are
// closed, and the new channel is subscribed and fetched.
func (s *Session) SelectChannel(ctx context.Context, ch domain.Channel) error {
	s.stopSubscription()

	s.mu.Lock()
	s.active = ch.ID
	s.thread = uuid.Nil
	s.detailsOpen = false
	s.mu.Unlock()

	if _, ok := s.store.Channel(ch.ID); !ok {
		s.store.Dispatch(ChannelUpserted{Channel: ch})
	}
	s.store.Dispatch(ChannelSeen{ChannelID: ch.ID})

	// Subscribe before fetching so nothing is missed in between. Events that
	// arrive during the fetch stay queued on the stream and are applied on
	// top of the snapshot once it has landed.
	start, err := s.subscribe(ch.ID)
	if err != nil {
		return s.fail("SelectChannel", err)
	}
	err = s.fetchChannel(ctx, ch.ID)
	start()
	if err != nil {
		return s.fail("SelectChannel", err)
	}
	return nil
}

func (s *Session) fetchChannel(ctx context.Context, channelID uuid.UUID) error {
	var (
		messages []domain.Message
		receipts map[uuid.UUID][]domain.ReadReceipt
		members  []domain.ChannelMember
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		messages, err = s.backend.ListMessages(gctx, channelID, MessageQuery{Limit: s.pageSize})
		return err
	})
	g.Go(func() error {
		var err error
		receipts, err = s.backend.ListReceipts(gctx, channelID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.backend.ListMembers(gctx, channelID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.store.Dispatch(MessagesLoaded{ChannelID: channelID, Messages: messages})
	s.store.Dispatch(ReceiptsLoaded{ChannelID: channelID, ByMessage: receipts})
	s.store.Dispatch(MembersLoaded{ChannelID: channelID, Members: members})
	return nil
}

// LoadOlder fetches the page before the oldest loaded message.
func (s *Session) LoadOlder(ctx context.Context) (int, error) {
	channelID, err := s.activeID()
	if err != nil {
		return 0, err
	}
	q := MessageQuery{Limit: s.pageSize}
	if loaded := s.store.Messages(channelID); len(loaded) > 0 {
		oldest := loaded[0].CreatedAt
		q.Before = &oldest
	}
	page, err := s.backend.ListMessages(ctx, channelID, q)
	if err != nil {
		return 0, s.fail("LoadOlder", err)
	}
	s.store.Dispatch(MessagesLoaded{ChannelID: channelID, Messages: page})
	return len(page), nil
}

// subscribe joins the channel's stream. Events are held until start is
// called.
func (s *Session) subscribe(channelID uuid.UUID) (start func(), err error) {
	subCtx, stop := context.WithCancel(s.root)
	sub, err := s.backend.Subscribe(subCtx, channelID)
	if err != nil {
		stop()
		return nil, err
	}
	s.seq.Reset(channelID, sub.Seq)

	done := make(chan struct{})
	gate := make(chan struct{})
	s.mu.Lock()
	s.stopSub, s.subDone = stop, done
	s.mu.Unlock()

	s.pumps.Add(1)
	go func() {
		defer s.pumps.Done()
		defer close(done)
		select {
		case <-gate:
		case <-subCtx.Done():
			s.seq.Forget(channelID)
			return
		}
		s.pump(subCtx, channelID, sub.Events)
	}()
	return sync.OnceFunc(func() { close(gate) }), nil
}

func (s *Session) stopSubscription() {
	s.mu.Lock()
	stop, done := s.stopSub, s.subDone
	s.stopSub, s.subDone = nil, nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

func (s *Session) pump(ctx context.Context, channelID uuid.UUID, events <-chan domain.Event) {
	defer s.seq.Forget(channelID)

	var gap clockwork.Timer
	defer func() {
		if gap != nil {
			gap.Stop()
		}
	}()

	for {
		if gap != nil {
			gap.Stop()
			gap = nil
		}
		var expired <-chan time.Time
		if deadline, ok := s.seq.GapDeadline(channelID); ok {
			gap = s.clock.NewTimer(deadline.Sub(s.clock.Now()))
			expired = gap.Chan()
		}

		var ev domain.Event
		select {
		case <-ctx.Done():
			return
		case <-expired:
			if errors.Is(s.seq.Expire(channelID), ErrGap) {
				s.resync(ctx, channelID)
			}
			continue
		case e, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					s.notifier.Error("Subscribe", fmt.Errorf("realtime stream of channel %s closed", channelID))
				}
				return
			}
			ev = e
		}

		ready, err := s.seq.Accept(ev)
		if errors.Is(err, ErrGap) {
			s.resync(ctx, channelID)
			continue
		}
		for _, e := range ready {
			s.apply(ctx, e)
		}
	}
}

// resync refetches a channel after the sequencer gave up on a gap. Queued
// events after the gap are applied on top once the pump resumes.
func (s *Session) resync(ctx context.Context, channelID uuid.UUID) {
	s.log.WarnContext(ctx, "realtime gap, refetching", slog.String("channel_id", channelID.String()))
	if err := s.fetchChannel(ctx, channelID); err != nil && ctx.Err() == nil {
		s.notifier.Error("Resync", err)
	}
}

// apply turns one realtime event into store actions.
func (s *Session) apply(ctx context.Context, ev domain.Event) {
	switch ev.Kind {
	case domain.EventMessageCreated:
		if ev.Message != nil {
			s.store.Dispatch(MessageAppended{Message: *ev.Message})
		}
	case domain.EventMessageUpdated, domain.EventReactionChanged:
		if ev.Message != nil {
			s.store.Dispatch(MessageUpdated{Message: *ev.Message})
		}
	case domain.EventMessageDeleted:
		if id := eventMessageID(ev); id != uuid.Nil {
			s.store.Dispatch(MessageRemoved{MessageID: id, At: ev.At})
		}
	case domain.EventTyping:
		if ev.Typing != nil {
			s.store.Dispatch(TypingChanged{State: *ev.Typing, ReceivedAt: s.clock.Now()})
		}
	case domain.EventReceiptCreated:
		if ev.Receipt != nil {
			s.store.Dispatch(ReceiptAdded{Receipt: *ev.Receipt})
		}
	case domain.EventChannelUpdated:
		if ev.Channel != nil {
			s.store.Dispatch(ChannelUpserted{Channel: *ev.Channel})
		}
	case domain.EventChannelDeleted:
		s.store.Dispatch(ChannelRemoved{ChannelID: ev.ChannelID})
		s.mu.Lock()
		if s.active == ev.ChannelID {
			s.active, s.thread, s.detailsOpen = uuid.Nil, uuid.Nil, false
		}
		s.mu.Unlock()
	case domain.EventMemberChanged:
		members, err := s.backend.ListMembers(ctx, ev.ChannelID)
		if err != nil {
			if ctx.Err() == nil {
				s.log.WarnContext(ctx, "reload members", slog.String("error", err.Error()))
			}
			return
		}
		s.store.Dispatch(MembersLoaded{ChannelID: ev.ChannelID, Members: members})
	}
}

func eventMessageID(ev domain.Event) uuid.UUID {
	switch {
	case ev.MessageID != nil:
		return *ev.MessageID
	case ev.Message != nil:
		return ev.Message.ID
	}
	return uuid.Nil
}

// ---------------------------------------------------------------------------
// Message mutations
// ---------------------------------------------------------------------------

// SendMessage posts a text message to the active channel.
func (s *Session) SendMessage(ctx context.Context, content string) error {
	return s.send(ctx, "SendMessage", SendInput{Content: content, Type: domain.MessageTypeText})
}

// ReplyToMessage posts a thread reply.
func (s *Session) ReplyToMessage(ctx context.Context, parentID uuid.UUID, content string) error {
	return s.send(ctx, "ReplyToMessage", SendInput{Content: content, Type: domain.MessageTypeText, ParentID: &parentID})
}

func (s *Session) send(ctx context.Context, op string, in SendInput) error {
	channelID, err := s.activeID()
	if err != nil {
		return s.fail(op, err)
	}
	msg, err := s.backend.SendMessage(ctx, channelID, in)
	if err != nil {
		return s.fail(op, err)
	}
	s.store.Dispatch(MessageAppended{Message: *msg})
	return nil
}

// EditMessage replaces the content of an own message.
func (s *Session) EditMessage(ctx context.Context, id uuid.UUID, content string) error {
	msg, err := s.backend.EditMessage(ctx, id, content)
	if err != nil {
		return s.fail("EditMessage", err)
	}
	s.store.Dispatch(MessageUpdated{Message: *msg})
	return nil
}

// DeleteMessage soft-deletes an own message.
func (s *Session) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteMessage(ctx, id); err != nil {
		return s.fail("DeleteMessage", err)
	}
	s.store.Dispatch(MessageRemoved{MessageID: id, At: s.clock.Now()})
	return nil
}

// React toggles an emoji reaction of the current user.
func (s *Session) React(ctx context.Context, id uuid.UUID, emoji string) error {
	msg, err := s.backend.ToggleReaction(ctx, id, emoji)
	if err != nil {
		return s.fail("React", err)
	}
	s.store.Dispatch(MessageUpdated{Message: *msg})
	return nil
}

// Translate returns the message content in targetLang. Nothing is stored.
func (s *Session) Translate(ctx context.Context, id uuid.UUID, targetLang string) (string, error) {
	text, err := s.backend.TranslateMessage(ctx, id, targetLang)
	if err != nil {
		return "", s.fail("Translate", err)
	}
	return text, nil
}

// SendAttachment uploads a file and posts it as a message.
func (s *Session) SendAttachment(ctx context.Context, name, contentType string, size int64, body io.Reader) error {
	channelID, err := s.activeID()
	if err != nil {
		return s.fail("SendAttachment", err)
	}
	att, err := s.backend.Upload(ctx, UploadInput{
		ChannelID:   channelID,
		Bucket:      s.buckets.Attachment,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Body:        body,
	})
	if err != nil {
		return s.fail("SendAttachment", err)
	}
	return s.send(ctx, "SendAttachment", SendInput{
		Type:        domain.MessageTypeText,
		Attachments: []domain.Attachment{*att},
	})
}

// SendVoice uploads a finished recording and posts it as a voice message.
func (s *Session) SendVoice(ctx context.Context, rec voice.Recording) error {
	channelID, err := s.activeID()
	if err != nil {
		return s.fail("SendVoice", err)
	}
	att, err := s.backend.Upload(ctx, UploadInput{
		ChannelID:   channelID,
		Bucket:      s.buckets.Voice,
		Name:        rec.FileName(s.clock.Now()),
		ContentType: rec.ContentType,
		Size:        int64(len(rec.Data)),
		Body:        bytes.NewReader(rec.Data),
	})
	if err != nil {
		return s.fail("SendVoice", err)
	}
	return s.send(ctx, "SendVoice", SendInput{
		Type:  domain.MessageTypeVoice,
		Voice: &domain.VoicePayload{Path: att.Path, DurationSeconds: rec.Duration.Seconds()},
	})
}

// SendTypingIndicator signals that the current user is composing. Callers
// throttle; see Composer.
func (s *Session) SendTypingIndicator(ctx context.Context) error {
	channelID, err := s.activeID()
	if err != nil {
		return err
	}
	if err := s.backend.SendTyping(ctx, channelID, true); err != nil {
		// Typing is best effort; no toast.
		s.log.DebugContext(ctx, "send typing", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// MarkRead records receipts for messages and mirrors them in the store.
func (s *Session) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.backend.MarkRead(ctx, ids); err != nil {
		return s.fail("MarkRead", err)
	}
	me, now := s.CurrentUserID(), s.clock.Now()
	for _, id := range ids {
		if m, ok := s.store.Message(id); ok {
			s.store.Dispatch(ReceiptAdded{Receipt: domain.ReadReceipt{
				MessageID: id, ChannelID: m.ChannelID, UserID: me, ReadAt: now,
			}})
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Channels
// ---------------------------------------------------------------------------

// CreateChannel creates a channel and selects it.
func (s *Session) CreateChannel(ctx context.Context, in CreateChannelInput) (*domain.Channel, error) {
	ch, err := s.backend.CreateChannel(ctx, in)
	if err != nil {
		return nil, s.fail("CreateChannel", err)
	}
	s.store.Dispatch(ChannelUpserted{Channel: *ch})
	if err := s.SelectChannel(ctx, *ch); err != nil {
		return ch, err
	}
	return ch, nil
}

// UpdateChannel edits channel settings.
func (s *Session) UpdateChannel(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) error {
	ch, err := s.backend.UpdateChannel(ctx, id, p)
	if err != nil {
		return s.fail("UpdateChannel", err)
	}
	s.store.Dispatch(ChannelUpserted{Channel: *ch})
	return nil
}

// DeleteChannel removes a channel and closes it if active.
func (s *Session) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteChannel(ctx, id); err != nil {
		return s.fail("DeleteChannel", err)
	}
	s.mu.Lock()
	wasActive := s.active == id
	s.mu.Unlock()
	if wasActive {
		s.stopSubscription()
		s.mu.Lock()
		s.active, s.thread, s.detailsOpen = uuid.Nil, uuid.Nil, false
		s.mu.Unlock()
	}
	s.store.Dispatch(ChannelRemoved{ChannelID: id})
	return nil
}

// ---------------------------------------------------------------------------
// View state
// ---------------------------------------------------------------------------

// OpenThread loads a thread and marks it open.
func (s *Session) OpenThread(ctx context.Context, parentID uuid.UUID) error {
	parent, replies, err := s.backend.GetThread(ctx, parentID)
	if err != nil {
		return s.fail("OpenThread", err)
	}
	s.store.Dispatch(MessagesLoaded{ChannelID: parent.ChannelID, Messages: append([]domain.Message{*parent}, replies...)})

	s.mu.Lock()
	s.thread = parentID
	s.mu.Unlock()
	return nil
}

// CloseThread closes the open thread.
func (s *Session) CloseThread() {
	s.mu.Lock()
	s.thread = uuid.Nil
	s.mu.Unlock()
}

// OpenThreadID returns the parent of the open thread, or uuid.Nil.
func (s *Session) OpenThreadID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread
}

// ToggleDetails flips the details panel and returns the new state.
func (s *Session) ToggleDetails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailsOpen = !s.detailsOpen
	return s.detailsOpen
}

// DetailsOpen reports whether the details panel is shown.
func (s *Session) DetailsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailsOpen
}

// Close cancels the active subscription and waits for the event pump.
func (s *Session) Close() {
	s.stopSubscription()
	s.cancel()
	s.pumps.Wait()
}
