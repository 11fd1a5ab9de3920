// Command cleanup physically removes messages soft-deleted longer than the
// configured retention period and purges expired refresh tokens. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/message"
	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres/token"
	"github.com/heartmarshall/teamhub-backend/internal/app"
	"github.com/heartmarshall/teamhub-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	threshold := time.Now().AddDate(0, 0, -cfg.Chat.SoftDeleteRetentionDays)

	deleted, err := message.New(pool).HardDeleteSoftDeleted(ctx, threshold)
	if err != nil {
		logger.Error("hard delete failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}
	logger.Info("hard delete completed",
		slog.Int("deleted", deleted),
		slog.Time("threshold", threshold),
	)

	tokens, err := token.New(pool).DeleteExpired(ctx)
	if err != nil {
		logger.Error("token cleanup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("token cleanup completed", slog.Int("deleted", tokens))
}
