package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/audit"
	budgetrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/budget"
	channelrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/channel"
	memberrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/member"
	messagerepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/message"
	receiptrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/receipt"
	settingrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/setting"
	tokenrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/teamhub-backend/internal/adapter/provider/translate"
	"github.com/heartmarshall/teamhub-backend/internal/adapter/storage"
	"github.com/heartmarshall/teamhub-backend/internal/auth"
	"github.com/heartmarshall/teamhub-backend/internal/config"
	"github.com/heartmarshall/teamhub-backend/internal/realtime"
	authsvc "github.com/heartmarshall/teamhub-backend/internal/service/auth"
	channelsvc "github.com/heartmarshall/teamhub-backend/internal/service/channel"
	mediasvc "github.com/heartmarshall/teamhub-backend/internal/service/media"
	membersvc "github.com/heartmarshall/teamhub-backend/internal/service/member"
	messagesvc "github.com/heartmarshall/teamhub-backend/internal/service/message"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
	receiptsvc "github.com/heartmarshall/teamhub-backend/internal/service/receipt"
	settingssvc "github.com/heartmarshall/teamhub-backend/internal/service/settings"
	typingsvc "github.com/heartmarshall/teamhub-backend/internal/service/typing"
	usersvc "github.com/heartmarshall/teamhub-backend/internal/service/user"
	"github.com/heartmarshall/teamhub-backend/internal/transport/graphql"
	"github.com/heartmarshall/teamhub-backend/internal/transport/middleware"
	"github.com/heartmarshall/teamhub-backend/internal/transport/rest"
	"github.com/heartmarshall/teamhub-backend/internal/transport/ws"
)

// Run is the server entry point. It loads configuration, connects to the
// database, applies migrations, wires repositories, services and transport,
// and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, cfg.Database.MigrationsDir, logger); err != nil {
			return err
		}
	}

	clock := clockwork.NewRealClock()

	store, err := storage.New(cfg.Storage, clock)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Repositories.
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	channels := channelrepo.New(pool)
	members := memberrepo.New(pool)
	messages := messagerepo.New(pool)
	receipts := receiptrepo.New(pool)
	budgets := budgetrepo.New(pool)
	settings := settingrepo.New(pool)
	audit := auditrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	// Metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middleware.NewHTTPMetrics(registry)

	// Services.
	perms := permission.NewService(logger, channels, members)
	hub := realtime.NewHub(logger, cfg.Realtime, perms, realtime.NewMetrics(registry))
	defer hub.Close()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, clock)
	authService := authsvc.NewService(logger, users, tokens, tx, jwtManager, cfg.Auth)
	userService := usersvc.NewService(logger, users, audit, tx)
	channelService := channelsvc.NewService(logger, channels, members, perms, hub, audit, tx)
	memberService := membersvc.NewService(logger, members, perms, hub, audit, tx)
	messageService := messagesvc.NewService(logger, messages, channels, members, perms, hub, audit, tx,
		newTranslator(cfg.Translate, logger), store, cfg.Chat, cfg.Storage)
	receiptService := receiptsvc.NewService(logger, receipts, perms, hub)
	typingService := typingsvc.NewService(perms, hub, clock)
	mediaService := mediasvc.NewService(logger, store, perms)
	settingsService := settingssvc.NewService(logger, budgets, settings, audit, tx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	router := newRouter(handlers{
		health:     rest.NewHealthHandler(pool, store, hub, BuildVersion()),
		auth:       rest.NewAuthHandler(authService, logger),
		users:      rest.NewUserHandler(userService, logger),
		channels:   rest.NewChannelHandler(channelService, memberService, logger),
		messages:   rest.NewMessageHandler(messageService, typingService, receiptService, logger),
		media:      rest.NewMediaHandler(mediaService, logger),
		backoffice: rest.NewBackofficeHandler(settingsService, logger),
		realtime:   ws.NewHandler(logger, authService, hub, cfg.CORS.AllowedOrigins),
		graphql:    graphql.NewHandler(logger, channelService, memberService, messageService, userService),
	}, routerDeps{
		cfg:      cfg,
		logger:   logger,
		tokens:   authService,
		profiles: users,
		limiter:  limiter,
		registry: registry,
		metrics:  httpMetrics,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

type translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

func newTranslator(cfg config.TranslateConfig, logger *slog.Logger) translator {
	if cfg.Endpoint == "" {
		return translate.NewStub(logger)
	}
	return translate.NewHTTPProvider(cfg.Endpoint, cfg.APIKey, cfg.Timeout, logger)
}
