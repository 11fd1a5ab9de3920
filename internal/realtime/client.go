package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var (
	errClientGone           = errors.New("client disconnected")
	errSlowClient           = errors.New("client send buffer full")
	errTooManySubscriptions = errors.New("too many subscriptions")
)

// Client is one websocket connection of an authenticated user.
type Client struct {
	hub    *Hub
	userID uuid.UUID
	send   chan []byte
	subs   map[uuid.UUID]struct{} // guarded by hub.mu

	closeOnce sync.Once
}

// UserID returns the authenticated user of the connection.
func (c *Client) UserID() uuid.UUID { return c.userID }

func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Attach registers a client for userID without a connection. The returned
// channel yields raw envelopes until the client is dropped.
func (h *Hub) Attach(userID uuid.UUID) (*Client, <-chan []byte) {
	c := &Client{
		hub:    h,
		userID: userID,
		send:   make(chan []byte, max(h.cfg.SendBuffer, 1)),
		subs:   make(map[uuid.UUID]struct{}),
	}
	h.register(c)
	return c, c.send
}

// Detach unregisters a client.
func (h *Hub) Detach(c *Client) {
	h.drop(c, false)
}

// Serve runs the read and write loops of an upgraded connection until the
// peer disconnects, the client is dropped, or ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID uuid.UUID) {
	c, out := h.Attach(userID)
	log := h.log.With(slog.String("user_id", userID.String()))
	log.DebugContext(ctx, "client connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, out)
	}()

	h.readLoop(ctx, conn, c, log)

	h.Detach(c)
	cancel()
	<-done
	_ = conn.Close()
	log.DebugContext(ctx, "client disconnected")
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, c *Client, log *slog.Logger) {
	pongWait := 2 * h.cfg.PingInterval
	conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.WarnContext(ctx, "websocket read", slog.String("error", err.Error()))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if !h.handle(ctx, c, raw) {
			return
		}
	}
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				// Unblock the read loop.
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				_ = conn.Close()
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}

		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
			_ = conn.Close()
			return
		}
	}
}

// handle processes one client message. It returns false when the client must
// be disconnected.
func (h *Hub) handle(ctx context.Context, c *Client, raw []byte) bool {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return h.replyError(c, nil, ErrCodeInvalidMessage, "invalid message format")
	}

	switch env.Type {
	case TypePing:
		pong, _ := Encode(TypePong, nil)
		return h.reply(c, pong)

	case TypeSubscribe, TypeUnsubscribe:
		var req ChannelRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || req.ChannelID == uuid.Nil {
			return h.replyError(c, nil, ErrCodeInvalidMessage, "channel_id is required")
		}
		if env.Type == TypeUnsubscribe {
			h.Unsubscribe(c, req.ChannelID)
			ack, _ := Encode(TypeUnsubscribed, req)
			return h.reply(c, ack)
		}
		return h.subscribe(ctx, c, req.ChannelID)

	default:
		return h.replyError(c, nil, ErrCodeInvalidMessage, "unknown message type "+string(env.Type))
	}
}

func (h *Hub) subscribe(ctx context.Context, c *Client, channelID uuid.UUID) bool {
	err := h.Subscribe(ctx, c, channelID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errClientGone), errors.Is(err, errSlowClient):
		h.drop(c, errors.Is(err, errSlowClient))
		return false
	case errors.Is(err, errTooManySubscriptions):
		return h.replyError(c, &channelID, ErrCodeTooMany, err.Error())
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return h.replyError(c, &channelID, ErrCodeForbidden, "no access to channel")
	case errors.Is(err, domain.ErrNotFound):
		return h.replyError(c, &channelID, ErrCodeNotFound, "channel not found")
	default:
		h.log.ErrorContext(ctx, "subscribe",
			slog.String("user_id", c.userID.String()),
			slog.String("channel_id", channelID.String()),
			slog.String("error", err.Error()))
		return h.replyError(c, &channelID, ErrCodeInternal, "internal error")
	}
}

func (h *Hub) replyError(c *Client, channelID *uuid.UUID, code, message string) bool {
	payload, err := Encode(TypeError, ErrorMessage{ChannelID: channelID, Code: code, Message: message})
	if err != nil {
		return false
	}
	return h.reply(c, payload)
}
