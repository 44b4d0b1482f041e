// Package config loads the secrets and tunables of a sync run.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cmoa-notion-sync/internal/enrich"
	"cmoa-notion-sync/internal/genre"
	"cmoa-notion-sync/internal/scrapers/cmoa"
	"cmoa-notion-sync/internal/selector"
	"cmoa-notion-sync/internal/store/notionstore"
	"cmoa-notion-sync/lib/configutil"

	"github.com/google/uuid"
)

const (
	EnvNotionApiKey = "NOTION_API_KEY"
	EnvDatabaseId   = "DATABASE_ID"

	FileName = "config.json5"
)

// ErrConfigMissing is returned when a required environment variable is unset.
var ErrConfigMissing = errors.New("missing configuration")

// File is the shape of config.json5, every field is optional.
type File struct {
	Delay              string                 `json:"delay"`
	FetchTimeout       string                 `json:"fetch_timeout"`
	UserAgent          string                 `json:"user_agent"`
	MaxPages           int                    `json:"max_pages"`
	Debug              bool                   `json:"debug"`
	PromotionalPhrases []string               `json:"promotional_phrases"`
	GenreRename        map[string]string      `json:"genre_rename"`
	Properties         notionstore.Properties `json:"properties"`
}

type Config struct {
	NotionToken string
	DatabaseId  string

	Delay              time.Duration
	FetchTimeout       time.Duration
	UserAgent          string
	MaxPages           int
	Debug              bool
	PromotionalPhrases []string
	GenreRename        genre.Renamer
	Properties         notionstore.Properties
}

// Load reads config.json5 (searched upward from the working directory, absent
// means defaults) and the required environment variables.
func Load() (Config, error) {
	file, err := configutil.ReadRecursively[File](FileName)
	if err != nil && !errors.Is(err, configutil.ErrNotFound) {
		return Config{}, err
	}
	return Resolve(file, os.Getenv)
}

// LoadTunables is Load without the environment variables.
func LoadTunables() (Config, error) {
	file, err := configutil.ReadRecursively[File](FileName)
	if err != nil && !errors.Is(err, configutil.ErrNotFound) {
		return Config{}, err
	}
	return Tunables(file)
}

// Resolve applies defaults to `file` and reads secrets through `getenv`.
func Resolve(file File, getenv func(string) string) (Config, error) {
	cfg, err := Tunables(file)
	if err != nil {
		return Config{}, err
	}

	cfg.NotionToken = getenv(EnvNotionApiKey)
	if cfg.NotionToken == "" {
		return Config{}, fmt.Errorf("%w: %s is not set", ErrConfigMissing, EnvNotionApiKey)
	}

	rawId := getenv(EnvDatabaseId)
	if rawId == "" {
		return Config{}, fmt.Errorf("%w: %s is not set", ErrConfigMissing, EnvDatabaseId)
	}
	id, err := uuid.Parse(rawId)
	if err != nil {
		return Config{}, fmt.Errorf("%s is not a database id: %w", EnvDatabaseId, err)
	}
	cfg.DatabaseId = id.String()

	return cfg, nil
}

// Tunables resolves everything but the secrets, it is enough for commands
// that never talk to Notion.
func Tunables(file File) (Config, error) {
	cfg := Config{
		Delay:              enrich.DefaultDelay,
		FetchTimeout:       time.Second * 15,
		UserAgent:          file.UserAgent,
		MaxPages:           file.MaxPages,
		Debug:              file.Debug,
		PromotionalPhrases: file.PromotionalPhrases,
		GenreRename:        genre.DefaultTable().With(file.GenreRename),
		Properties:         notionstore.DefaultProperties(),
	}

	var err error
	if file.Delay != "" {
		cfg.Delay, err = time.ParseDuration(file.Delay)
		if err != nil {
			return Config{}, fmt.Errorf("parse delay: %w", err)
		}
	}
	if file.FetchTimeout != "" {
		cfg.FetchTimeout, err = time.ParseDuration(file.FetchTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse fetch_timeout: %w", err)
		}
	}
	if cfg.Delay < 0 || cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("delay must not be negative and fetch_timeout must be positive")
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = cmoa.DefaultUserAgent
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = selector.DefaultMaxPages
	}
	if cfg.PromotionalPhrases == nil {
		cfg.PromotionalPhrases = cmoa.DefaultPromotionalPhrases()
	}
	cfg.Properties = withDefaults(file.Properties, cfg.Properties)

	return cfg, nil
}

func withDefaults(props, defaults notionstore.Properties) notionstore.Properties {
	pick := func(value, fallback string) string {
		if value == "" {
			return fallback
		}
		return value
	}
	return notionstore.Properties{
		Title:    pick(props.Title, defaults.Title),
		URL:      pick(props.URL, defaults.URL),
		Synopsis: pick(props.Synopsis, defaults.Synopsis),
		Genres:   pick(props.Genres, defaults.Genres),
		Magazine: pick(props.Magazine, defaults.Magazine),
		Tags:     pick(props.Tags, defaults.Tags),
	}
}
