package app

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	userrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/teamhub-backend/internal/config"
	authsvc "github.com/heartmarshall/teamhub-backend/internal/service/auth"
	"github.com/heartmarshall/teamhub-backend/internal/transport/dataloader"
	"github.com/heartmarshall/teamhub-backend/internal/transport/graphql"
	"github.com/heartmarshall/teamhub-backend/internal/transport/middleware"
	"github.com/heartmarshall/teamhub-backend/internal/transport/rest"
	"github.com/heartmarshall/teamhub-backend/internal/transport/ws"
)

// handlers groups everything the router mounts.
type handlers struct {
	health     *rest.HealthHandler
	auth       *rest.AuthHandler
	users      *rest.UserHandler
	channels   *rest.ChannelHandler
	messages   *rest.MessageHandler
	media      *rest.MediaHandler
	backoffice *rest.BackofficeHandler
	realtime   *ws.Handler
	graphql    *graphql.Handler
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	tokens   *authsvc.Service
	profiles *userrepo.Repo
	limiter  *middleware.RateLimiter
	registry *prometheus.Registry
	metrics  *middleware.HTTPMetrics
}

func newRouter(h handlers, d routerDeps) http.Handler {
	mux := http.NewServeMux()

	var instrument middleware.Middleware
	if d.metrics != nil {
		instrument = d.metrics.Instrument()
	}

	mux.HandleFunc("GET /live", h.health.Live)
	mux.HandleFunc("GET /ready", h.health.Ready)
	mux.HandleFunc("GET /health", h.health.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	authLimit := d.limiter.Limit(d.cfg.RateLimit.AuthPerMinute)
	mux.Handle("POST /auth/register", authLimit(http.HandlerFunc(h.auth.Register)))
	mux.Handle("POST /auth/login", authLimit(http.HandlerFunc(h.auth.Login)))
	mux.Handle("POST /auth/refresh", authLimit(http.HandlerFunc(h.auth.Refresh)))
	mux.HandleFunc("POST /auth/logout", h.auth.Logout)

	mux.HandleFunc("GET /me", h.auth.Me)
	mux.HandleFunc("PATCH /me", h.users.UpdateMe)
	mux.HandleFunc("GET /profiles", h.users.Search)
	mux.HandleFunc("POST /profiles/batch", h.users.Batch)

	mux.HandleFunc("GET /channels", h.channels.List)
	mux.HandleFunc("POST /channels", h.channels.Create)
	mux.HandleFunc("GET /channels/{id}", h.channels.Get)
	mux.HandleFunc("PATCH /channels/{id}", h.channels.Update)
	mux.HandleFunc("DELETE /channels/{id}", h.channels.Delete)
	mux.HandleFunc("POST /channels/{id}/join", h.channels.Join)
	mux.HandleFunc("GET /channels/{id}/members", h.channels.ListMembers)
	mux.HandleFunc("POST /channels/{id}/members", h.channels.AddMembers)
	mux.HandleFunc("PATCH /channels/{id}/members/{userID}", h.channels.UpdateMember)
	mux.HandleFunc("DELETE /channels/{id}/members/{userID}", h.channels.RemoveMember)

	mux.HandleFunc("GET /channels/{id}/messages", h.messages.List)
	mux.HandleFunc("POST /channels/{id}/messages", h.messages.Send)
	mux.HandleFunc("POST /channels/{id}/typing", h.messages.Typing)
	mux.HandleFunc("GET /channels/{id}/receipts", h.messages.Receipts)
	mux.HandleFunc("PATCH /messages/{id}", h.messages.Edit)
	mux.HandleFunc("DELETE /messages/{id}", h.messages.Delete)
	mux.HandleFunc("GET /messages/{id}/thread", h.messages.Thread)
	mux.HandleFunc("POST /messages/{id}/reactions", h.messages.React)
	mux.HandleFunc("POST /messages/{id}/translate", h.messages.Translate)
	mux.HandleFunc("POST /receipts", h.messages.MarkRead)

	mux.HandleFunc("POST /channels/{id}/uploads/{bucket}", h.media.Upload)
	mux.HandleFunc("POST /storage/sign", h.media.Sign)
	mux.HandleFunc("GET /storage/object", h.media.Download)

	mux.HandleFunc("GET /budgets", h.backoffice.ListBudgets)
	mux.HandleFunc("POST /budgets", h.backoffice.CreateBudget)
	mux.HandleFunc("GET /budgets/{id}", h.backoffice.GetBudget)
	mux.HandleFunc("PATCH /budgets/{id}", h.backoffice.UpdateBudget)
	mux.HandleFunc("DELETE /budgets/{id}", h.backoffice.DeleteBudget)
	mux.HandleFunc("GET /forecast-templates", h.backoffice.ListTemplates)
	mux.HandleFunc("POST /forecast-templates", h.backoffice.CreateTemplate)
	mux.HandleFunc("PATCH /forecast-templates/{id}", h.backoffice.UpdateTemplate)
	mux.HandleFunc("DELETE /forecast-templates/{id}", h.backoffice.DeleteTemplate)
	mux.HandleFunc("GET /settings/{group}", h.backoffice.GetSettings)
	mux.HandleFunc("PUT /settings/{group}", h.backoffice.SaveSettings)

	mux.Handle("GET /realtime", h.realtime)
	mux.Handle("POST /graphql", h.graphql)

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(d.logger),
		middleware.Recovery(d.logger),
		middleware.CORS(d.cfg.CORS),
		middleware.Auth(d.tokens),
		dataloader.Middleware(d.profiles),
		instrument,
	)(mux)
}
