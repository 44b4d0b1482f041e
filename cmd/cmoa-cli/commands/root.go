package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cmoa-notion-sync/internal/config"
	"cmoa-notion-sync/internal/store/sqlitestore"
	"cmoa-notion-sync/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmoa-cli",
	Short: "cmoa-cli is a CLI for testing cmoa extraction and running syncs against local stores.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func loadTunables() config.Config {
	cfg, err := config.LoadTunables()
	if err != nil {
		serviceutil.Fatal("failed to load configuration", err)
	}
	return cfg
}

// storeConfig treats urls as remote libsql databases and anything else as a
// local sqlite file.
func storeConfig(target string) sqlitestore.Config {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(target, scheme) {
			return sqlitestore.Config{
				Url:       target,
				AuthToken: os.Getenv("LIBSQL_AUTH_TOKEN"),
			}
		}
	}
	return sqlitestore.Config{File: target}
}
