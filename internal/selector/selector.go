package selector

import (
	"context"
	"errors"
	"fmt"

	"cmoa-notion-sync/internal/components/assert"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/store"
)

const (
	report_selector_query    = "selector.query"
	report_selector_fallback = "selector.fallback"
	report_selector_page_cap = "selector.page-cap"
)

const DefaultMaxPages = 100

// ErrStoreUnreachable wraps any store error that prevented selection.
var ErrStoreUnreachable = errors.New("store unreachable")

type Selector struct {
	store    any
	maxPages int
	tel      telemetry.API
}

// New creates a Selector, `s` must implement store.CandidateQuerier,
// store.PageLister or both.
func New(s any, maxPages int, tel telemetry.API) Selector {
	assert.NotNil(s, "store")
	assert.NotNil(tel, "telemetry")

	_, isQuerier := s.(store.CandidateQuerier)
	_, isLister := s.(store.PageLister)
	if !isQuerier && !isLister {
		panic(fmt.Sprintf("store %T can neither query nor list", s))
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return Selector{
		store:    s,
		maxPages: maxPages,
		tel:      telemetry.NewScopedAPI("selector", tel),
	}
}

// Candidates returns the records that need enrichment in the store's order.
func (s Selector) Candidates(ctx context.Context) ([]store.CatalogRecord, error) {
	querier, ok := s.store.(store.CandidateQuerier)
	if ok {
		records, err := querier.QueryCandidates(ctx)
		if err == nil {
			s.tel.ReportCount(report_selector_query, int64(len(records)))
			return records, nil
		}
		if !errors.Is(err, store.ErrQueryUnsupported) {
			return nil, fmt.Errorf("%w: query candidates: %w", ErrStoreUnreachable, err)
		}
		s.tel.ReportWarning(report_selector_query, err)
	}

	lister, ok := s.store.(store.PageLister)
	if !ok {
		return nil, fmt.Errorf("%w: filtered query unavailable and store cannot list", ErrStoreUnreachable)
	}
	return s.listCandidates(ctx, lister)
}

func (s Selector) listCandidates(ctx context.Context, lister store.PageLister) ([]store.CatalogRecord, error) {
	s.tel.ReportDebug(report_selector_fallback, "listing every record")

	records := []store.CatalogRecord{}
	cursor := ""
	for pageNo := 0; ; pageNo++ {
		if pageNo >= s.maxPages {
			s.tel.ReportWarning(
				report_selector_page_cap,
				fmt.Errorf("stopped listing after %d pages", s.maxPages),
			)
			break
		}

		page, err := lister.ListPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: list page %d: %w", ErrStoreUnreachable, pageNo, err)
		}
		for _, r := range page.Records {
			if store.IsCandidate(r) {
				records = append(records, r)
			}
		}
		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	s.tel.ReportCount(report_selector_fallback, int64(len(records)))
	return records, nil
}
