package commands

import (
	"context"
	"log/slog"

	"cmoa-notion-sync/internal/app"
	"cmoa-notion-sync/internal/components/chrono"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/config"
	"cmoa-notion-sync/internal/enrich"
	"cmoa-notion-sync/internal/selector"
	"cmoa-notion-sync/internal/store/sqlitestore"
	"cmoa-notion-sync/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var syncDb *string

func init() {
	syncDb = syncCmd.Flags().String("db", "catalog.db", "The sqlite file or libsql url of the local store.")
	rootCmd.AddCommand(syncCmd)
}

// syncLocal enriches every candidate of a local store, a cancelled ctx stops
// the run between records and returns the partial report.
func syncLocal(
	ctx context.Context,
	local sqlitestore.Store,
	scraper enrich.Scraper,
	clock chrono.API,
	cfg config.Config,
	tel telemetry.API,
) (enrich.Report, error) {
	records, err := selector.New(local, cfg.MaxPages, tel).Candidates(ctx)
	if err != nil {
		return enrich.Report{}, err
	}
	return enrich.NewDriver(local, scraper, clock, cfg.Delay, tel).Run(ctx, records)
}

var syncCmd = &cobra.Command{
	Use:   "sync [--db <path/to/catalog.db>]",
	Short: "Runs a sync against a local store instead of notion.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadTunables()
		tel := telemetry.SlogAPI{}

		db, err := storeConfig(*syncDb).OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		report, err := syncLocal(
			cmd.Context(),
			sqlitestore.New(db),
			app.NewScraper(cfg, tel),
			chrono.StandardImpl{},
			cfg,
			tel,
		)
		if err != nil {
			slog.Warn("sync stopped early", "err", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Outcome", "Records"})
		for o := enrich.OutcomeWrittenBack; o <= enrich.OutcomeFailedWrite; o++ {
			t.AppendRow(table.Row{o.String(), report.Outcomes[o]})
		}
		t.AppendFooter(table.Row{"Processed", report.Processed})
		t.Render()
	},
}
