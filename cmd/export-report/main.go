// Command export-report writes the sales or inventory workbook to a file,
// acting as the given admin account.
//
// Usage:
//
//	export-report --as=owner --kind=sales --from=2026-01-01 --to=2026-01-31 --out=sales.xlsx
//	export-report --as=owner --kind=inventory --out=stock.xlsx
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/phoneshop-backend/internal/app"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/domain"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
	"github.com/heartmarshall/phoneshop-backend/internal/service/report"
)

func main() {
	as := flag.String("as", "", "username of the admin running the export")
	kind := flag.String("kind", "sales", "workbook to export: sales or inventory")
	from := flag.String("from", "", "first day of the period (YYYY-MM-DD), sales only")
	to := flag.String("to", "", "last day of the period (YYYY-MM-DD), sales only")
	out := flag.String("out", "", "output file (default <kind>-<date>.xlsx)")
	flag.Parse()

	_ = godotenv.Load()

	if *as == "" || (*kind != "sales" && *kind != "inventory") {
		fmt.Fprintln(os.Stderr, "Usage: export-report --as=owner --kind=sales|inventory [--from=YYYY-MM-DD] [--to=YYYY-MM-DD] [--out=file.xlsx]")
		os.Exit(1)
	}

	period, err := parsePeriod(*from, *to)
	if err != nil {
		log.Fatalf("period: %v", err)
	}

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

	admin, err := userrepo.New(pool).GetByUsername(ctx, *as)
	if err != nil {
		logger.Error("look up user", slog.String("username", *as), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !admin.IsActive {
		logger.Error("user is deactivated", slog.String("username", *as))
		os.Exit(1)
	}
	actor := domain.AuthContext{ActorID: admin.ID, Role: admin.Role}

	// Exports never log in, so the attempt limiter is never consulted.
	store := ratelimit.NewMemoryStore(time.Hour)
	defer store.Stop()
	limiter := ratelimit.New(store, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow)
	svc := app.NewServices(logger, pool, cfg, limiter, nil)

	var data []byte
	if *kind == "sales" {
		data, err = svc.Reports.ExportSalesXLSX(ctx, actor, period)
	} else {
		data, err = svc.Reports.ExportInventoryXLSX(ctx, actor)
	}
	if err != nil {
		logger.Error("export failed", slog.String("kind", *kind), slog.String("error", err.Error()))
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("%s-%s.xlsx", *kind, time.Now().Format(time.DateOnly))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write workbook", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("export complete", slog.String("kind", *kind), slog.String("path", path), slog.Int("bytes", len(data)))
}

func parsePeriod(from, to string) (report.Period, error) {
	var p report.Period
	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return p, fmt.Errorf("from: %w", err)
		}
		p.From = &t
	}
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return p, fmt.Errorf("to: %w", err)
		}
		end := t.AddDate(0, 0, 1)
		p.To = &end
	}
	return p, nil
}
