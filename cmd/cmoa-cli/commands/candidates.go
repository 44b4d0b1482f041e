package commands

import (
	"cmoa-notion-sync/internal/app"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/config"
	"cmoa-notion-sync/internal/selector"
	"cmoa-notion-sync/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(candidatesCmd)
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Lists the notion records that the next sync would enrich.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			serviceutil.Fatal("failed to load configuration", err)
		}
		tel := telemetry.SlogAPI{}

		records, err := selector.New(app.NewNotionStore(cfg, tel), cfg.MaxPages, tel).
			Candidates(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to select candidates", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"#", "Title", "URL"})
		for i, r := range records {
			t.AppendRow(table.Row{i + 1, r.Title, r.URL})
		}
		t.AppendFooter(table.Row{"", "Total", len(records)})
		t.Render()
	},
}
