// Package notionstore implements the store interfaces on top of a Notion database.
package notionstore

import (
	"context"
	"fmt"

	"cmoa-notion-sync/internal/notion"
	"cmoa-notion-sync/internal/store"
)

// Properties are the names of the database properties records are read from and written to.
type Properties struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Synopsis string `json:"synopsis"`
	Genres   string `json:"genres"`
	Magazine string `json:"magazine"`
	Tags     string `json:"tags"`
}

func DefaultProperties() Properties {
	return Properties{
		Title:    "タイトル",
		URL:      "URL",
		Synopsis: "あらすじ",
		Genres:   "ジャンル",
		Magazine: "雑誌・レーベル",
		Tags:     "タグ",
	}
}

type Store struct {
	client     *notion.Client
	databaseId string
	props      Properties
}

func New(client *notion.Client, databaseId string, props Properties) Store {
	return Store{
		client:     client,
		databaseId: databaseId,
		props:      props,
	}
}

func (s Store) candidateFilter() *notion.Filter {
	return &notion.Filter{And: []notion.Filter{
		{Property: s.props.URL, URL: &notion.TextCondition{IsNotEmpty: true}},
		{Property: s.props.Synopsis, RichText: &notion.TextCondition{IsEmpty: true}},
	}}
}

// QueryCandidates asks the API for every candidate. When the database rejects
// the filter (the properties are missing or of another type) the error wraps
// store.ErrQueryUnsupported so callers can fall back to listing.
func (s Store) QueryCandidates(ctx context.Context) ([]store.CatalogRecord, error) {
	pages, err := s.client.QueryAll(ctx, s.databaseId, s.candidateFilter())
	if notion.IsCode(err, "validation_error") || notion.IsCode(err, "invalid_request_url") {
		return nil, fmt.Errorf("%w: %w", store.ErrQueryUnsupported, err)
	}
	if err != nil {
		return nil, err
	}

	records := make([]store.CatalogRecord, len(pages))
	for i, p := range pages {
		records[i] = s.recordFromPage(p)
	}
	return records, nil
}

func (s Store) ListPage(ctx context.Context, cursor string) (store.Page, error) {
	res, err := s.client.QueryDatabase(ctx, s.databaseId, notion.QueryRequest{
		StartCursor: cursor,
	})
	if err != nil {
		return store.Page{}, err
	}

	records := make([]store.CatalogRecord, len(res.Results))
	for i, p := range res.Results {
		records[i] = s.recordFromPage(p)
	}
	return store.Page{
		Records:    records,
		NextCursor: res.Cursor(),
		HasMore:    res.HasMore,
	}, nil
}

func (s Store) UpdateEnrichment(ctx context.Context, id string, e store.Enrichment) error {
	return s.client.UpdatePage(ctx, id, s.propertiesFor(e))
}

func (s Store) propertiesFor(e store.Enrichment) map[string]any {
	magazine := []string{}
	if e.Magazine != "" {
		magazine = append(magazine, e.Magazine)
	}
	return map[string]any{
		s.props.Synopsis: map[string]any{"rich_text": notion.TextObjects(e.Synopsis)},
		s.props.Genres:   map[string]any{"multi_select": notion.NamedOptions(e.Genres)},
		s.props.Magazine: map[string]any{"multi_select": notion.NamedOptions(magazine)},
		s.props.Tags:     map[string]any{"multi_select": notion.NamedOptions(e.Tags)},
	}
}

func (s Store) recordFromPage(p notion.Page) store.CatalogRecord {
	props := p.Properties
	record := store.CatalogRecord{
		ID:       p.ID,
		Title:    props[s.props.Title].PlainText(),
		URL:      props[s.props.URL].URLValue(),
		Synopsis: props[s.props.Synopsis].PlainText(),
		Genres:   props[s.props.Genres].Names(),
		Tags:     props[s.props.Tags].Names(),
	}
	magazine := props[s.props.Magazine].Names()
	if len(magazine) > 0 {
		record.Magazine = magazine[0]
	}
	return record
}
