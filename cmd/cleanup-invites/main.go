// Command cleanup-invites removes used invitations and those that expired more
// than the retention period ago. It is intended to be invoked by an external
// cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/invite"
	"github.com/heartmarshall/phoneshop-backend/internal/app"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
)

func main() {
	retention := flag.Duration("retention", 7*24*time.Hour, "keep invites for this long after they expire")
	flag.Parse()

	_ = godotenv.Load()

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

	threshold := time.Now().Add(-*retention)

	deleted, err := invite.New(pool).DeleteExpired(ctx, threshold)
	if err != nil {
		logger.Error("delete expired invites failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("invite cleanup complete",
		slog.Int("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
