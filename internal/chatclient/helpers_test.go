package chatclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var errBackend = errors.New("backend down")

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	errs []string
}

func (n *recordingNotifier) Error(op string, _ error) {
	n.mu.Lock()
	n.errs = append(n.errs, op)
	n.mu.Unlock()
}

func (n *recordingNotifier) ops() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errs...)
}

// feed is a fake realtime stream per channel.
type feed struct {
	mu      sync.Mutex
	streams map[uuid.UUID]chan domain.Event
	ctxs    map[uuid.UUID]context.Context
	notes   chan domain.Event
}

func newFeed() *feed {
	return &feed{
		streams: make(map[uuid.UUID]chan domain.Event),
		ctxs:    make(map[uuid.UUID]context.Context),
		notes:   make(chan domain.Event, 16),
	}
}

func (f *feed) notifications(context.Context) (<-chan domain.Event, error) {
	return f.notes, nil
}

func (f *feed) subscribe(ctx context.Context, channelID uuid.UUID) (*Subscription, error) {
	ch := make(chan domain.Event, 128)
	f.mu.Lock()
	f.streams[channelID] = ch
	f.ctxs[channelID] = ctx
	f.mu.Unlock()
	return &Subscription{ChannelID: channelID, Events: ch}, nil
}

func (f *feed) push(channelID uuid.UUID, evs ...domain.Event) {
	f.mu.Lock()
	ch := f.streams[channelID]
	f.mu.Unlock()
	for _, ev := range evs {
		ch <- ev
	}
}

func (f *feed) ctx(channelID uuid.UUID) context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxs[channelID]
}

type fixture struct {
	backend  *BackendMock
	store    *Store
	session  *Session
	clock    *clockwork.FakeClock
	notifier *recordingNotifier
	feed     *feed
	me       domain.User
	channels []domain.Channel
}

func newChannel(name string, typ domain.ChannelType) domain.Channel {
	return domain.Channel{ID: uuid.New(), Name: name, Type: typ, CreatedAt: epoch}
}

func newMessage(channelID, sender uuid.UUID, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		SenderID:  sender,
		Content:   content,
		Type:      domain.MessageTypeText,
		CreatedAt: at,
	}
}

// newFixture builds a loaded session over a mock backend with permissive
// defaults. Tests override the Func fields they care about.
func newFixture(t *testing.T, channels ...domain.Channel) *fixture {
	t.Helper()

	f := &fixture{
		store:    NewStore(),
		clock:    clockwork.NewFakeClockAt(epoch),
		notifier: &recordingNotifier{},
		feed:     newFeed(),
		me:       domain.User{ID: uuid.New(), DisplayName: "Me", Username: "me"},
		channels: channels,
	}
	f.backend = &BackendMock{
		CurrentUserFunc: func(context.Context) (*domain.User, error) {
			u := f.me
			return &u, nil
		},
		ListChannelsFunc: func(context.Context) ([]domain.Channel, error) {
			return f.channels, nil
		},
		ListMessagesFunc: func(context.Context, uuid.UUID, MessageQuery) ([]domain.Message, error) {
			return nil, nil
		},
		ListReceiptsFunc: func(context.Context, uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error) {
			return map[uuid.UUID][]domain.ReadReceipt{}, nil
		},
		ListMembersFunc: func(context.Context, uuid.UUID) ([]domain.ChannelMember, error) {
			return nil, nil
		},
		SubscribeFunc:     f.feed.subscribe,
		NotificationsFunc: f.feed.notifications,
	}
	f.session = NewSession(f.backend, f.store, Options{Notifier: f.notifier, Clock: f.clock})
	t.Cleanup(f.session.Close)

	require.NoError(t, f.session.Load(context.Background()))
	return f
}

func (f *fixture) selectChannel(t *testing.T, ch domain.Channel) {
	t.Helper()
	require.NoError(t, f.session.SelectChannel(context.Background(), ch))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}
