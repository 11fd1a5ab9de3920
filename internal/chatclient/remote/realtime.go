package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/teamhub-backend/internal/chatclient"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/realtime"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

const (
	subscriptionBuffer = 64
	writeWait          = 10 * time.Second
)

// realtimeConn multiplexes channel subscriptions over one socket.
type realtimeConn struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	subs      map[uuid.UUID]*subscriber
	pending   map[uuid.UUID]pendingSub
	listeners map[chan domain.Event]struct{}
	closed    bool
	done      chan struct{}
	err       error
}

// pendingSub is a subscription waiting for its ack. The subscriber goes live
// in the same critical section that consumes the ack, so no event sent after
// the ack can miss it.
type pendingSub struct {
	ack chan ackResult
	sub *subscriber
}

type subscriber struct {
	events   chan domain.Event
	stop     chan struct{}
	ctxDone  <-chan struct{}
	finished chan struct{}
	once     sync.Once
}

func newSubscriber(ctx context.Context) *subscriber {
	return &subscriber{
		events:   make(chan domain.Event, subscriptionBuffer),
		stop:     make(chan struct{}),
		ctxDone:  ctx.Done(),
		finished: make(chan struct{}),
	}
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

type ackResult struct {
	seq int64
	err error
}

// Subscribe joins a channel's event stream. The stream ends when ctx is
// cancelled or the connection drops.
func (c *Client) Subscribe(ctx context.Context, channelID uuid.UUID) (*chatclient.Subscription, error) {
	rt, err := c.realtime(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote.Subscribe: %w", err)
	}

	p := pendingSub{ack: make(chan ackResult, 1), sub: newSubscriber(ctx)}
	if err := rt.register(ctx, channelID, p); err != nil {
		return nil, fmt.Errorf("remote.Subscribe: %w", err)
	}
	sub := p.sub

	if err := rt.write(realtime.TypeSubscribe, realtime.ChannelRequest{ChannelID: channelID}); err != nil {
		rt.abandon(channelID, sub)
		return nil, fmt.Errorf("remote.Subscribe: %w", err)
	}

	var res ackResult
	select {
	case res = <-p.ack:
	case <-ctx.Done():
		// The ack may be in flight; the server must not keep the channel.
		rt.abandon(channelID, sub)
		if err := rt.write(realtime.TypeUnsubscribe, realtime.ChannelRequest{ChannelID: channelID}); err != nil {
			c.log.Debug("unsubscribe", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("remote.Subscribe: %w", ctx.Err())
	case <-rt.done:
		return nil, fmt.Errorf("remote.Subscribe: %w", rt.err)
	}
	if res.err != nil {
		rt.abandon(channelID, sub)
		return nil, fmt.Errorf("remote.Subscribe: %w", res.err)
	}

	out := make(chan domain.Event)

	go func() {
		defer close(out)
		defer func() {
			rt.mu.Lock()
			if rt.subs[channelID] == sub {
				delete(rt.subs, channelID)
			}
			rt.mu.Unlock()
			sub.close()
			close(sub.finished)
		}()
		for {
			select {
			case <-ctx.Done():
				if err := rt.write(realtime.TypeUnsubscribe, realtime.ChannelRequest{ChannelID: channelID}); err != nil {
					c.log.Debug("unsubscribe", slog.String("error", err.Error()))
				}
				return
			case <-sub.stop:
				return
			case ev := <-sub.events:
				select {
				case out <- ev:
				case <-ctx.Done():
				}
			}
		}
	}()

	return &chatclient.Subscription{ChannelID: channelID, Seq: res.seq, Events: out}, nil
}

// Notifications streams unsequenced events for channels the user is not
// subscribed to, such as a new message elsewhere or being added to a channel.
// Events are dropped rather than queued when the reader falls behind. The
// stream ends when ctx is cancelled or the connection drops.
func (c *Client) Notifications(ctx context.Context) (<-chan domain.Event, error) {
	rt, err := c.realtime(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote.Notifications: %w", err)
	}

	out := make(chan domain.Event, subscriptionBuffer)
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil, fmt.Errorf("remote.Notifications: %w", rt.err)
	}
	rt.listeners[out] = struct{}{}
	rt.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-rt.done:
		}
		rt.mu.Lock()
		delete(rt.listeners, out)
		close(out)
		rt.mu.Unlock()
	}()
	return out, nil
}

// register reserves channelID for a pending subscription. A subscription
// of the same channel that is shutting down is waited for; a live one is an
// error.
func (rt *realtimeConn) register(ctx context.Context, channelID uuid.UUID, p pendingSub) error {
	for {
		rt.mu.Lock()
		if rt.closed {
			rt.mu.Unlock()
			return rt.err
		}
		if _, busy := rt.pending[channelID]; busy {
			rt.mu.Unlock()
			return fmt.Errorf("channel %s: %w", channelID, domain.ErrAlreadyExists)
		}
		existing := rt.subs[channelID]
		if existing == nil {
			rt.pending[channelID] = p
			rt.mu.Unlock()
			return nil
		}
		rt.mu.Unlock()

		select {
		case <-existing.ctxDone:
		case <-existing.stop:
		default:
			return fmt.Errorf("channel %s: %w", channelID, domain.ErrAlreadyExists)
		}
		select {
		case <-existing.finished:
		case <-ctx.Done():
			return ctx.Err()
		case <-rt.done:
			return rt.err
		}
	}
}

// realtime returns the live connection, dialing one if needed.
func (c *Client) realtime(ctx context.Context) (*realtimeConn, error) {
	c.rtMu.Lock()
	defer c.rtMu.Unlock()

	if c.rt != nil {
		select {
		case <-c.rt.done:
			c.rt = nil
		default:
			return c.rt, nil
		}
	}

	u := *c.base
	u.Path = c.base.Path + "/realtime"
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	if tok := c.accessToken(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}
	conn, resp, err := c.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, statusError(resp.StatusCode, nil)
		}
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	rt := &realtimeConn{
		conn:      conn,
		log:       c.log,
		subs:      make(map[uuid.UUID]*subscriber),
		pending:   make(map[uuid.UUID]pendingSub),
		listeners: make(map[chan domain.Event]struct{}),
		done:      make(chan struct{}),
	}
	go rt.readLoop()
	c.rt = rt
	return rt, nil
}

func (rt *realtimeConn) write(t realtime.MessageType, data any) error {
	raw, err := realtime.Encode(t, data)
	if err != nil {
		return err
	}
	rt.writeMu.Lock()
	defer rt.writeMu.Unlock()
	_ = rt.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := rt.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return nil
}

// abandon drops a subscription that never reached its caller, whether it is
// still pending or was already made live by its ack.
func (rt *realtimeConn) abandon(channelID uuid.UUID, sub *subscriber) {
	rt.mu.Lock()
	if p, ok := rt.pending[channelID]; ok && p.sub == sub {
		delete(rt.pending, channelID)
	}
	if rt.subs[channelID] == sub {
		delete(rt.subs, channelID)
	}
	rt.mu.Unlock()
	sub.close()
	close(sub.finished)
}

func (rt *realtimeConn) readLoop() {
	for {
		_, raw, err := rt.conn.ReadMessage()
		if err != nil {
			_ = rt.close(err)
			return
		}
		env, err := realtime.ParseEnvelope(raw)
		if err != nil {
			rt.log.Warn("bad realtime message", slog.String("error", err.Error()))
			continue
		}
		rt.dispatch(env)
	}
}

func (rt *realtimeConn) dispatch(env realtime.Envelope) {
	switch env.Type {
	case realtime.TypeSubscribed:
		var msg realtime.SubscribedMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return
		}
		rt.resolve(msg.ChannelID, ackResult{seq: msg.Seq})

	case realtime.TypeError:
		var msg realtime.ErrorMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil || msg.ChannelID == nil {
			rt.log.Warn("realtime error", slog.String("code", msg.Code), slog.String("message", msg.Message))
			return
		}
		rt.resolve(*msg.ChannelID, ackResult{err: codeError(msg)})

	case realtime.TypeUnsubscribed:
		var msg realtime.ChannelRequest
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return
		}
		rt.mu.Lock()
		sub := rt.subs[msg.ChannelID]
		rt.mu.Unlock()
		if sub != nil {
			sub.close()
		}

	case realtime.TypeNotify:
		var we wire.Event
		if err := json.Unmarshal(env.Data, &we); err != nil {
			rt.log.Warn("decode notification", slog.String("error", err.Error()))
			return
		}
		ev, err := we.ToDomain()
		if err != nil {
			rt.log.Warn("decode notification", slog.String("error", err.Error()))
			return
		}
		rt.mu.Lock()
		for l := range rt.listeners {
			select {
			case l <- ev:
			default:
				rt.log.Warn("notification dropped", slog.String("channel_id", ev.ChannelID.String()))
			}
		}
		rt.mu.Unlock()

	case realtime.TypeEvent:
		var we wire.Event
		if err := json.Unmarshal(env.Data, &we); err != nil {
			rt.log.Warn("decode event", slog.String("error", err.Error()))
			return
		}
		ev, err := we.ToDomain()
		if err != nil {
			rt.log.Warn("decode event", slog.String("error", err.Error()))
			return
		}
		rt.mu.Lock()
		sub := rt.subs[ev.ChannelID]
		rt.mu.Unlock()
		if sub == nil {
			return
		}
		// Blocking keeps per-channel order; the subscriber goroutine drains
		// until its context ends.
		select {
		case sub.events <- ev:
		case <-sub.stop:
		case <-rt.done:
		}
	}
}

func (rt *realtimeConn) resolve(channelID uuid.UUID, res ackResult) {
	rt.mu.Lock()
	p, ok := rt.pending[channelID]
	delete(rt.pending, channelID)
	if ok && res.err == nil {
		rt.subs[channelID] = p.sub
	}
	rt.mu.Unlock()
	if ok {
		p.ack <- res
	}
}

func codeError(msg realtime.ErrorMessage) error {
	var base error
	switch msg.Code {
	case realtime.ErrCodeForbidden:
		base = domain.ErrForbidden
	case realtime.ErrCodeNotFound:
		base = domain.ErrNotFound
	case realtime.ErrCodeInvalidMessage:
		base = domain.ErrValidation
	case realtime.ErrCodeTooMany:
		base = domain.ErrConflict
	default:
		return fmt.Errorf("realtime: %s: %s", msg.Code, msg.Message)
	}
	return fmt.Errorf("%w: %s", base, msg.Message)
}

// close tears the connection down and ends every subscription.
func (rt *realtimeConn) close(cause error) error {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil
	}
	rt.closed = true
	if cause == nil {
		cause = errors.New("realtime connection closed")
	}
	rt.err = cause
	subs := rt.subs
	rt.subs = make(map[uuid.UUID]*subscriber)
	rt.pending = make(map[uuid.UUID]pendingSub)
	close(rt.done)
	rt.mu.Unlock()

	for _, s := range subs {
		s.close()
	}

	rt.writeMu.Lock()
	_ = rt.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	rt.writeMu.Unlock()
	return rt.conn.Close()
}
