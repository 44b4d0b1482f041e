package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cmoa-notion-sync/internal/store"
	"cmoa-notion-sync/internal/store/sqlitestore"
	"cmoa-notion-sync/lib/serviceutil"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var importDb *string

func init() {
	importDb = importCmd.Flags().String("db", "catalog.db", "The sqlite file or libsql url of the local store.")
	rootCmd.AddCommand(importCmd)
}

type importedRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Synopsis string   `json:"synopsis"`
	Genres   []string `json:"genres"`
	Magazine string   `json:"magazine"`
	Tags     []string `json:"tags"`
}

func readRecords(path string) ([]store.CatalogRecord, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var imported []importedRecord
	err = json.Unmarshal(buff, &imported)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]store.CatalogRecord, len(imported))
	for i, r := range imported {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		records[i] = store.CatalogRecord(r)
	}
	return records, nil
}

var importCmd = &cobra.Command{
	Use:   "import [--db <path/to/catalog.db>] <records.json>",
	Short: "Seeds a local store from a json array of records.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := readRecords(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read records", err)
		}

		db, err := storeConfig(*importDb).OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		err = sqlitestore.New(db).Insert(cmd.Context(), records...)
		if err != nil {
			serviceutil.Fatal("failed to insert records", err)
		}
		slog.Info("imported records", "count", len(records), "db", *importDb)
	},
}
