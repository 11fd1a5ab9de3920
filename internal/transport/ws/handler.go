// Package ws upgrades authenticated HTTP requests to realtime websocket
// connections.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/teamhub-backend/internal/transport/middleware"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type hub interface {
	Serve(ctx context.Context, conn *websocket.Conn, userID uuid.UUID)
}

// Handler serves GET /realtime.
type Handler struct {
	log      *slog.Logger
	tokens   tokenValidator
	hub      hub
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler. allowedOrigins is the comma
// separated CORS origin list; "*" allows any origin.
func NewHandler(logger *slog.Logger, tokens tokenValidator, h hub, allowedOrigins string) *Handler {
	origins := splitOrigins(allowedOrigins)
	return &Handler{
		log:    logger.With("handler", "realtime"),
		tokens: tokens,
		hub:    h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), r.Host, origins)
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		token := middleware.TokenFromRequest(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, err := h.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		userID = id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.DebugContext(r.Context(), "websocket upgrade", slog.String("error", err.Error()))
		return
	}

	ctx := ctxutil.WithUserID(r.Context(), userID)
	h.hub.Serve(ctx, conn, userID)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// originAllowed accepts requests without an Origin header (non-browser
// clients), same-host origins and configured origins.
func originAllowed(origin, host string, allowed []string) bool {
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, host) {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
