// Package sqlitestore is a store backed by a local sqlite file or a remote
// libsql database, it is used for offline runs of the sync.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"cmoa-notion-sync/internal/store"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const pageSize = 100

var ErrRecordNotFound = errors.New("sqlitestore: record not found")

type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the remote libsql database when Url is set, the local file otherwise,
// and makes sure the schema exists.
func (config Config) OpenDB() (*sql.DB, error) {
	var db *sql.DB
	var err error
	switch {
	case config.Url != "":
		values := url.Values{}
		if config.AuthToken != "" {
			values.Add("authToken", config.AuthToken)
		}
		db, err = sql.Open("libsql", config.Url+"?"+values.Encode())
	case config.File != "":
		db, err = sql.Open("sqlite", config.File)
		if err != nil {
			return nil, err
		}
		// sqlite only allows one writer, see https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("neither a file nor a url was specified")
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) Store {
	return Store{db: db}
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	out, err := json.Marshal(values)
	return string(out), err
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(raw), &out)
	return out, err
}

// Insert adds records, replacing any record with the same id.
func (s Store) Insert(ctx context.Context, records ...store.CatalogRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		genres, err := encodeList(r.Genres)
		if err != nil {
			return err
		}
		tags, err := encodeList(r.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`insert into catalog_record(id, title, url, synopsis, genres, magazine, tags)
			values (?, ?, ?, ?, ?, ?, ?)
			on conflict(id) do update set
				title = excluded.title,
				url = excluded.url,
				synopsis = excluded.synopsis,
				genres = excluded.genres,
				magazine = excluded.magazine,
				tags = excluded.tags`,
			r.ID, r.Title, r.URL, r.Synopsis, genres, r.Magazine, tags,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// scanRecords returns the records along with their positions.
func scanRecords(rows *sql.Rows) ([]store.CatalogRecord, []int64, error) {
	defer rows.Close()

	var records []store.CatalogRecord
	var positions []int64
	for rows.Next() {
		var r store.CatalogRecord
		var position int64
		var genres, tags string
		err := rows.Scan(&position, &r.ID, &r.Title, &r.URL, &r.Synopsis, &genres, &r.Magazine, &tags)
		if err != nil {
			return nil, nil, err
		}
		r.Genres, err = decodeList(genres)
		if err != nil {
			return nil, nil, fmt.Errorf("decode genres of %s: %w", r.ID, err)
		}
		r.Tags, err = decodeList(tags)
		if err != nil {
			return nil, nil, fmt.Errorf("decode tags of %s: %w", r.ID, err)
		}
		records = append(records, r)
		positions = append(positions, position)
	}
	return records, positions, rows.Err()
}

const selectColumns = `select position, id, title, url, synopsis, genres, magazine, tags from catalog_record`

func (s Store) QueryCandidates(ctx context.Context) ([]store.CatalogRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		selectColumns+` where url != '' and synopsis = '' order by position`,
	)
	if err != nil {
		return nil, err
	}
	records, _, err := scanRecords(rows)
	return records, err
}

// ListPage uses the position of the last record of the previous page as its cursor.
func (s Store) ListPage(ctx context.Context, cursor string) (store.Page, error) {
	var after int64
	if cursor != "" {
		var err error
		after, err = strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return store.Page{}, fmt.Errorf("invalid cursor %q: %w", cursor, err)
		}
	}

	rows, err := s.db.QueryContext(
		ctx,
		selectColumns+` where position > ? order by position limit ?`,
		after, pageSize+1,
	)
	if err != nil {
		return store.Page{}, err
	}
	records, positions, err := scanRecords(rows)
	if err != nil {
		return store.Page{}, err
	}

	if len(records) <= pageSize {
		return store.Page{Records: records}, nil
	}
	return store.Page{
		Records:    records[:pageSize],
		NextCursor: strconv.FormatInt(positions[pageSize-1], 10),
		HasMore:    true,
	}, nil
}

func (s Store) UpdateEnrichment(ctx context.Context, id string, e store.Enrichment) error {
	genres, err := encodeList(e.Genres)
	if err != nil {
		return err
	}
	tags, err := encodeList(e.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(
		ctx,
		`update catalog_record set synopsis = ?, genres = ?, magazine = ?, tags = ? where id = ?`,
		e.Synopsis, genres, e.Magazine, tags, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

// Get returns a single record by id.
func (s Store) Get(ctx context.Context, id string) (store.CatalogRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` where id = ?`, id)
	if err != nil {
		return store.CatalogRecord{}, err
	}
	records, _, err := scanRecords(rows)
	if err != nil {
		return store.CatalogRecord{}, err
	}
	if len(records) == 0 {
		return store.CatalogRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return records[0], nil
}
