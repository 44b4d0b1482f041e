// Package app builds the collaborators shared by the sync and cli entry points.
package app

import (
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/config"
	"cmoa-notion-sync/internal/notion"
	"cmoa-notion-sync/internal/scrapers/cmoa"
	"cmoa-notion-sync/internal/store/notionstore"
)

func NewScraper(cfg config.Config, tel telemetry.API) *cmoa.Client {
	extractor := cmoa.NewExtractor(
		cmoa.DefaultLayout(),
		cfg.PromotionalPhrases,
		cfg.GenreRename,
		tel,
	)
	return cmoa.NewClient(
		cmoa.ClientOptions{
			Timeout:          cfg.FetchTimeout,
			UserAgent:        cfg.UserAgent,
			CloudflareBypass: true,
		},
		extractor,
		tel,
	)
}

func NewNotionStore(cfg config.Config, tel telemetry.API) notionstore.Store {
	client := notion.NewClient(notion.ClientOptions{Token: cfg.NotionToken}, tel)
	return notionstore.New(client, cfg.DatabaseId, cfg.Properties)
}
