package commands

import (
	"strings"

	"cmoa-notion-sync/internal/app"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/lib/restyutil"
	"cmoa-notion-sync/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var extractDump *string

func init() {
	extractDump = extractCmd.Flags().String("dump", "", "A directory to write the raw http messages to.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [--dump <dir>] <url>",
	Short: "Fetches a single title page and prints the extracted fields.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadTunables()
		scraper := app.NewScraper(cfg, telemetry.SlogAPI{})
		if *extractDump != "" {
			output, err := restyutil.NewFilesystemOutput(*extractDump)
			if err != nil {
				serviceutil.Fatal("failed to prepare dump directory", err)
			}
			scraper.DumpMessages(output)
		}

		result, err := scraper.Scrape(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to extract page", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRows([]table.Row{
			{"Synopsis", result.Synopsis},
			{"Genres", strings.Join(result.Genres, ", ")},
			{"Magazine", result.Magazine},
			{"Tags", strings.Join(result.Tags, ", ")},
		})
		t.Render()
	},
}
