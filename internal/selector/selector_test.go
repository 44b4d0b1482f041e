package selector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/store"

	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	pages []store.Page
	calls []string
	err   error
}

func (f *fakeLister) ListPage(ctx context.Context, cursor string) (store.Page, error) {
	f.calls = append(f.calls, cursor)
	if f.err != nil {
		return store.Page{}, f.err
	}
	idx := 0
	if cursor != "" {
		var err error
		idx, err = strconv.Atoi(cursor)
		if err != nil {
			return store.Page{}, err
		}
	}
	return f.pages[idx], nil
}

type fakeQuerier struct {
	records []store.CatalogRecord
	err     error
}

func (f *fakeQuerier) QueryCandidates(ctx context.Context) ([]store.CatalogRecord, error) {
	return f.records, f.err
}

type fakeBoth struct {
	*fakeQuerier
	*fakeLister
}

// pagesOf splits records into pages linked by index cursors.
func pagesOf(size int, records ...store.CatalogRecord) []store.Page {
	var pages []store.Page
	for i := 0; i < len(records); i += size {
		end := min(i+size, len(records))
		page := store.Page{Records: records[i:end]}
		if end < len(records) {
			page.HasMore = true
			page.NextCursor = strconv.Itoa(len(pages) + 1)
		}
		pages = append(pages, page)
	}
	return pages
}

var catalog = []store.CatalogRecord{
	{ID: "1", Title: "候補1", URL: "https://www.cmoa.jp/title/1/"},
	{ID: "2", Title: "済み", URL: "https://www.cmoa.jp/title/2/", Synopsis: "あらすじ"},
	{ID: "3", Title: "URLなし"},
	{ID: "4", Title: "候補2", URL: "https://www.cmoa.jp/title/4/"},
	{ID: "5", Title: "候補3", URL: "https://www.cmoa.jp/title/5/", Genres: []string{"少年"}},
}

func ids(records []store.CatalogRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestPrimaryQuery(t *testing.T) {
	lister := &fakeLister{pages: pagesOf(2, catalog...)}
	s := New(fakeBoth{
		fakeQuerier: &fakeQuerier{records: []store.CatalogRecord{catalog[0], catalog[3]}},
		fakeLister:  lister,
	}, 0, &telemetry.Recorder{})

	records, err := s.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "4"}, ids(records))
	require.Empty(t, lister.calls)
}

func TestFallbackWhenQueryUnavailable(t *testing.T) {
	lister := &fakeLister{pages: pagesOf(2, catalog...)}
	s := New(lister, 0, &telemetry.Recorder{})

	records, err := s.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "4", "5"}, ids(records))
	require.Equal(t, []string{"", "1", "2"}, lister.calls)
	for _, r := range records {
		require.Empty(t, r.Synopsis)
		require.NotEmpty(t, r.URL)
	}
}

func TestFallbackWhenQueryUnsupported(t *testing.T) {
	tel := &telemetry.Recorder{}
	lister := &fakeLister{pages: pagesOf(10, catalog...)}
	s := New(fakeBoth{
		fakeQuerier: &fakeQuerier{err: fmt.Errorf("%w: validation_error", store.ErrQueryUnsupported)},
		fakeLister:  lister,
	}, 0, tel)

	records, err := s.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "4", "5"}, ids(records))
	require.Len(t, tel.Reports("warning", report_selector_query), 1)
}

func TestFallbackPageCap(t *testing.T) {
	tel := &telemetry.Recorder{}
	lister := &fakeLister{pages: pagesOf(1, catalog...)}
	s := New(lister, 3, tel)

	records, err := s.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(records))
	require.Len(t, lister.calls, 3)
	require.Len(t, tel.Reports("warning", report_selector_page_cap), 1)
}

func TestStoreUnreachable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	querying := New(&fakeQuerier{err: cause}, 0, &telemetry.Recorder{})
	_, err := querying.Candidates(context.Background())
	require.ErrorIs(t, err, ErrStoreUnreachable)
	require.ErrorIs(t, err, cause)

	listing := New(&fakeLister{err: cause}, 0, &telemetry.Recorder{})
	_, err = listing.Candidates(context.Background())
	require.ErrorIs(t, err, ErrStoreUnreachable)
	require.ErrorIs(t, err, cause)

	onlyQuery := New(&fakeQuerier{err: store.ErrQueryUnsupported}, 0, &telemetry.Recorder{})
	_, err = onlyQuery.Candidates(context.Background())
	require.ErrorIs(t, err, ErrStoreUnreachable)
}

func TestEmptyStore(t *testing.T) {
	s := New(&fakeLister{pages: []store.Page{{}}}, 0, &telemetry.Recorder{})
	records, err := s.Candidates(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestNewRejectsUselessStore(t *testing.T) {
	require.Panics(t, func() { New(struct{}{}, 0, &telemetry.Recorder{}) })
}
