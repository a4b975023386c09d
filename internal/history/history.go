// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists past resolutions in a local SQLite database so
// repeat queries can be answered from the stored final URL and the CLI can
// list what was resolved before. The store is bounded: old rows are pruned
// as new ones arrive.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/obeidat/sooqlink/pkg/types"
)

const dbFile = "resolutions.db"

// Entry is one stored resolution.
type Entry struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	ProductText string    `json:"product_text"`
	PriceFrom   *int      `json:"price_from,omitempty"`
	PriceTo     *int      `json:"price_to,omitempty"`
	YearFrom    *int      `json:"year_from,omitempty"`
	YearTo      *int      `json:"year_to,omitempty"`
	City        string    `json:"city,omitempty"`
	CategoryURL string    `json:"category_url"`
	FinalURL    string    `json:"final_url"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store manages the resolution history database.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore opens or creates the history database at cfg.Dir/resolutions.db
// and ensures the schema exists.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 500
	}

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			product_text TEXT,
			price_from INTEGER,
			price_to INTEGER,
			year_from INTEGER,
			year_to INTEGER,
			city TEXT,
			category_url TEXT,
			final_url TEXT,
			status TEXT NOT NULL,
			summary TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_query ON resolutions(query)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_created ON resolutions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one resolution and prunes rows beyond the configured bound.
func (s *Store) Record(ctx context.Context, rawQuery string, res types.ResolutionResult) error {
	ts := res.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolutions
			(query, product_text, price_from, price_to, year_from, year_to,
			 city, category_url, final_url, status, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rawQuery,
		res.Intent.ProductText,
		nullableInt(res.Intent.PriceFrom),
		nullableInt(res.Intent.PriceTo),
		nullableInt(res.Intent.YearFrom),
		nullableInt(res.Intent.YearTo),
		res.Intent.Location,
		res.CategoryURL,
		res.FinalURL,
		res.Status.String(),
		res.Summary,
		ts.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting resolution: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM resolutions WHERE id NOT IN (
			SELECT id FROM resolutions ORDER BY id DESC LIMIT ?
		)`, s.maxEntries)
	if err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, product_text, price_from, price_to, year_from,
		       year_to, city, category_url, final_url, status, summary, created_at
		FROM resolutions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Lookup returns the most recent successful resolution for the exact query,
// or false when none is stored. Only resolved entries count: a past failure
// is no reason to skip a fresh search.
func (s *Store) Lookup(ctx context.Context, rawQuery string) (Entry, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, product_text, price_from, price_to, year_from,
		       year_to, city, category_url, final_url, status, summary, created_at
		FROM resolutions
		WHERE query = ? AND status = ?
		ORDER BY id DESC LIMIT 1`, rawQuery, types.StatusResolved.String())
	if err != nil {
		return Entry{}, false, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var priceFrom, priceTo, yearFrom, yearTo sql.NullInt64
		var created string
		if err := rows.Scan(&e.ID, &e.Query, &e.ProductText,
			&priceFrom, &priceTo, &yearFrom, &yearTo,
			&e.City, &e.CategoryURL, &e.FinalURL, &e.Status, &e.Summary, &created); err != nil {
			return nil, fmt.Errorf("scanning resolution row: %w", err)
		}
		e.PriceFrom = intFromNull(priceFrom)
		e.PriceTo = intFromNull(priceTo)
		e.YearFrom = intFromNull(yearFrom)
		e.YearTo = intFromNull(yearTo)
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
