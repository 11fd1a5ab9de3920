// Package realtime fans out channel events to websocket clients. Every event
// published for a channel gets the next number of that channel's sequence,
// and subscribers receive events in sequence order.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/config"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

const maxSubscriptions = 500

type accessChecker interface {
	CanReadAs(ctx context.Context, userID, channelID uuid.UUID) (*permission.Access, error)
}

// Hub tracks connected clients and their channel subscriptions.
type Hub struct {
	log     *slog.Logger
	cfg     config.RealtimeConfig
	access  accessChecker
	metrics *Metrics

	// seqMu serialises sequence assignment with fan-out and with the
	// snapshot taken on subscribe. Lock order: seqMu, then mu.
	seqMu sync.Mutex
	seq   map[uuid.UUID]int64

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	users    map[uuid.UUID]map[*Client]struct{}
	channels map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates a hub. A nil metrics disables instrumentation.
func NewHub(logger *slog.Logger, cfg config.RealtimeConfig, access accessChecker, metrics *Metrics) *Hub {
	return &Hub{
		log:      logger.With("component", "realtime"),
		cfg:      cfg,
		access:   access,
		metrics:  metrics,
		seq:      make(map[uuid.UUID]int64),
		clients:  make(map[*Client]struct{}),
		users:    make(map[uuid.UUID]map[*Client]struct{}),
		channels: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Publish assigns the channel's next sequence number to ev and delivers it
// to the channel's subscribers. Users listed in notify who are not
// subscribed get an unsequenced notification instead.
func (h *Hub) Publish(ctx context.Context, ev domain.Event, notify ...uuid.UUID) {
	h.seqMu.Lock()
	ev.Seq = h.seq[ev.ChannelID] + 1

	payload, err := Encode(TypeEvent, wire.FromEvent(ev))
	if err != nil {
		h.seqMu.Unlock()
		h.log.ErrorContext(ctx, "encode event", slog.String("kind", ev.Kind.String()), slog.String("error", err.Error()))
		return
	}
	// Only a deliverable event consumes a seq; a hole would stall readers.
	h.seq[ev.ChannelID] = ev.Seq

	var slow []*Client
	h.mu.RLock()
	subs := h.channels[ev.ChannelID]
	for c := range subs {
		if !c.enqueue(payload) {
			slow = append(slow, c)
		}
	}
	if len(notify) > 0 {
		slow = append(slow, h.notifyLocked(ctx, ev, subs, notify)...)
	}
	h.mu.RUnlock()
	h.seqMu.Unlock()

	for _, c := range slow {
		h.drop(c, true)
	}
	if h.metrics != nil {
		h.metrics.Events.WithLabelValues(ev.Kind.String()).Inc()
	}

	switch ev.Kind {
	case domain.EventChannelDeleted:
		h.closeChannel(ev.ChannelID)
	case domain.EventMemberChanged:
		if ev.Member != nil {
			h.recheck(ctx, ev.ChannelID, ev.Member.UserID)
		}
	}
}

// notifyLocked sends an unsequenced copy of ev to clients of the given users
// that are not subscribed to the channel. Caller holds mu.
func (h *Hub) notifyLocked(ctx context.Context, ev domain.Event, subs map[*Client]struct{}, users []uuid.UUID) []*Client {
	ev.Seq = 0
	payload, err := Encode(TypeNotify, wire.FromEvent(ev))
	if err != nil {
		h.log.ErrorContext(ctx, "encode notification", slog.String("error", err.Error()))
		return nil
	}

	var slow []*Client
	seen := make(map[*Client]struct{})
	for _, uid := range users {
		for c := range h.users[uid] {
			if _, subscribed := subs[c]; subscribed {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			if !c.enqueue(payload) {
				slow = append(slow, c)
			}
		}
	}
	return slow
}

// Subscribe adds c to a channel after checking read access, and acknowledges
// with the channel's current sequence number.
func (h *Hub) Subscribe(ctx context.Context, c *Client, channelID uuid.UUID) error {
	if _, err := h.access.CanReadAs(ctx, c.userID, channelID); err != nil {
		return err
	}

	h.seqMu.Lock()
	defer h.seqMu.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return errClientGone
	}
	if _, already := c.subs[channelID]; !already {
		if len(c.subs) >= maxSubscriptions {
			return errTooManySubscriptions
		}
		if h.channels[channelID] == nil {
			h.channels[channelID] = make(map[*Client]struct{})
		}
		h.channels[channelID][c] = struct{}{}
		c.subs[channelID] = struct{}{}
		h.gaugeSubscriptions(1)
	}

	ack, err := Encode(TypeSubscribed, SubscribedMessage{ChannelID: channelID, Seq: h.seq[channelID]})
	if err != nil {
		return err
	}
	if !c.enqueue(ack) {
		// Dropped by the read loop once it sees the error.
		return errSlowClient
	}
	return nil
}

// Unsubscribe removes c from a channel.
func (h *Hub) Unsubscribe(c *Client, channelID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, channelID)
}

func (h *Hub) unsubscribeLocked(c *Client, channelID uuid.UUID) {
	if _, ok := c.subs[channelID]; !ok {
		return
	}
	delete(c.subs, channelID)
	if set := h.channels[channelID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.channels, channelID)
		}
	}
	h.gaugeSubscriptions(-1)
}

// LastSeq returns the last sequence number assigned in a channel.
func (h *Hub) LastSeq(channelID uuid.UUID) int64 {
	h.seqMu.Lock()
	defer h.seqMu.Unlock()
	return h.seq[channelID]
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.drop(c, false)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.users[c.userID] == nil {
		h.users[c.userID] = make(map[*Client]struct{})
	}
	h.users[c.userID][c] = struct{}{}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.Clients.Inc()
	}
}

// drop unregisters c and closes its send queue. Safe to call repeatedly.
func (h *Hub) drop(c *Client, slow bool) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	if set := h.users[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, c.userID)
		}
	}
	for channelID := range c.subs {
		h.unsubscribeLocked(c, channelID)
	}
	h.mu.Unlock()

	c.closeSend()

	if h.metrics != nil {
		h.metrics.Clients.Dec()
		if slow {
			h.metrics.Dropped.Inc()
		}
	}
	if slow {
		h.log.Warn("dropped slow client", slog.String("user_id", c.userID.String()))
	}
}

// closeChannel removes every subscription to a deleted channel.
func (h *Hub) closeChannel(channelID uuid.UUID) {
	h.seqMu.Lock()
	delete(h.seq, channelID)
	h.seqMu.Unlock()

	h.mu.Lock()
	for c := range h.channels[channelID] {
		h.unsubscribeLocked(c, channelID)
	}
	h.mu.Unlock()
}

// recheck unsubscribes the user's clients from a channel they can no longer
// read, for example after being removed.
func (h *Hub) recheck(ctx context.Context, channelID, userID uuid.UUID) {
	h.mu.RLock()
	var affected []*Client
	for c := range h.users[userID] {
		if _, ok := c.subs[channelID]; ok {
			affected = append(affected, c)
		}
	}
	h.mu.RUnlock()
	if len(affected) == 0 {
		return
	}

	_, err := h.access.CanReadAs(ctx, userID, channelID)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrNotFound) {
		h.log.WarnContext(ctx, "recheck subscription", slog.String("error", err.Error()))
		return
	}

	msg, _ := Encode(TypeUnsubscribed, ChannelRequest{ChannelID: channelID})
	h.mu.Lock()
	for _, c := range affected {
		h.unsubscribeLocked(c, channelID)
		if _, ok := h.clients[c]; ok {
			c.enqueue(msg)
		}
	}
	h.mu.Unlock()
}

// reply queues a direct response to c if it is still connected.
func (h *Hub) reply(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	return c.enqueue(payload)
}

func (h *Hub) gaugeSubscriptions(delta float64) {
	if h.metrics != nil {
		h.metrics.Subscriptions.Add(delta)
	}
}
