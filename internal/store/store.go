// Package store defines the record store the sync reads candidates from and
// writes enrichments back to.
package store

import (
	"context"
	"errors"
)

// CatalogRecord is one row of the catalog database.
type CatalogRecord struct {
	ID    string
	Title string
	URL   string

	Synopsis string
	Genres   []string
	Magazine string
	Tags     []string
}

// IsCandidate reports whether the record still needs enrichment: it has a
// source url and no synopsis yet.
func IsCandidate(r CatalogRecord) bool {
	return r.URL != "" && r.Synopsis == ""
}

// Enrichment is the set of fields written back to a record.
type Enrichment struct {
	Synopsis string
	Genres   []string
	// Magazine is omitted (cleared) when empty.
	Magazine string
	Tags     []string
}

// ErrQueryUnsupported is returned by CandidateQuerier implementations that
// cannot filter on the server for the current database.
var ErrQueryUnsupported = errors.New("store: filtered query unsupported")

// CandidateQuerier returns every candidate in a single filtered query,
// paginating internally.
type CandidateQuerier interface {
	QueryCandidates(ctx context.Context) ([]CatalogRecord, error)
}

type Page struct {
	Records    []CatalogRecord
	NextCursor string
	HasMore    bool
}

// PageLister lists every record of the store one page at a time, an empty
// cursor starts from the beginning.
type PageLister interface {
	ListPage(ctx context.Context, cursor string) (Page, error)
}

type Updater interface {
	UpdateEnrichment(ctx context.Context, id string, e Enrichment) error
}
