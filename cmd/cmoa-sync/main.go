package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cmoa-notion-sync/internal/app"
	"cmoa-notion-sync/internal/components/chrono"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/config"
	"cmoa-notion-sync/internal/enrich"
	"cmoa-notion-sync/internal/selector"
	"cmoa-notion-sync/lib/serviceutil"
)

func main() {
	telemetry.InitSlog(false)

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			serviceutil.Fatal("set NOTION_API_KEY and DATABASE_ID before running", err)
		}
		serviceutil.Fatal("failed to load configuration", err)
	}
	if cfg.Debug {
		telemetry.InitSlog(true)
	}

	ctx := serviceutil.SignalContext()

	otel, err := telemetry.SetupFromEnv(ctx, "cmoa-sync")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := otel.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx)

	tel := telemetry.SlogAPI{}
	store := app.NewNotionStore(cfg, tel)

	candidates, err := selector.New(store, cfg.MaxPages, tel).Candidates(ctx)
	if err != nil {
		serviceutil.Fatal("failed to read candidates from notion", err)
	}
	slog.Info("selected records to enrich", "count", len(candidates))

	driver := enrich.NewDriver(
		store,
		app.NewScraper(cfg, tel),
		chrono.StandardImpl{},
		cfg.Delay,
		tel,
	)

	t1 := time.Now()
	report, err := driver.Run(ctx, candidates)
	t2 := time.Now()
	if err != nil {
		slog.Warn("run interrupted", "err", err)
	}

	slog.Info("sync finished", "report", report, "seconds", t2.Sub(t1).Seconds())
}
