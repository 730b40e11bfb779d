// Package store persists menus in SQLite. A menu is identified by its
// (date, restaurant, meal type) key; saving a menu with an existing key
// replaces the stored items.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menutext"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "menus.db"

// Memory opens a private in-memory database.
const Memory = ":memory:"

// ErrNotFound is returned by Get when no menu has the key.
var ErrNotFound = errors.New("menu not found")

const schema = `
CREATE TABLE IF NOT EXISTS menus (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	date          TEXT NOT NULL,
	restaurant    TEXT NOT NULL,
	meal_type     TEXT NOT NULL,
	items         TEXT NOT NULL,
	rules_version TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	UNIQUE (date, restaurant, meal_type)
);
CREATE INDEX IF NOT EXISTS idx_menus_restaurant_date ON menus (restaurant, date);
`

const upsert = `
INSERT INTO menus (date, restaurant, meal_type, items, rules_version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (date, restaurant, meal_type) DO UPDATE SET
	items = excluded.items,
	rules_version = excluded.rules_version,
	updated_at = excluded.updated_at`

const selectColumns = `SELECT date, restaurant, meal_type, items, rules_version, updated_at FROM menus`

const orderBy = ` ORDER BY date, restaurant,
	CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END`

// Record is a stored menu with its provenance.
type Record struct {
	menu.Menu
	RulesVersion string    `json:"rules_version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Store is a SQLite-backed menu repository.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug("store opened", "path", path)
	return &Store{db: db, path: path, logger: logger, now: time.Now}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts menus in one transaction and returns how many were written.
func (s *Store) Save(ctx context.Context, menus []menu.Menu) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC().Format(time.RFC3339)
	for _, m := range menus {
		items, err := json.Marshal(m.Items)
		if err != nil {
			return 0, fmt.Errorf("encode items: %w", err)
		}
		k := m.Key()
		if _, err := stmt.ExecContext(ctx, k.Date, string(k.Restaurant), string(k.MealType), string(items), menutext.RulesVersion, now, now); err != nil {
			return 0, fmt.Errorf("save %s %s %s: %w", k.Date, k.Restaurant, k.MealType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("menus saved", "count", len(menus))
	return len(menus), nil
}

// Get returns the menu stored under k.
func (s *Store) Get(ctx context.Context, k menu.Key) (Record, error) {
	recs, err := s.query(ctx, selectColumns+` WHERE date = ? AND restaurant = ? AND meal_type = ?`,
		k.Date, string(k.Restaurant), string(k.MealType))
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[0], nil
}

// Daily returns every menu for day.
func (s *Store) Daily(ctx context.Context, day time.Time) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE date = ?`+orderBy, dateKey(day))
}

// Range returns every menu dated from..to inclusive.
func (s *Store) Range(ctx context.Context, from, to time.Time) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE date BETWEEN ? AND ?`+orderBy, dateKey(from), dateKey(to))
}

// ByRestaurant returns r's menus dated from..to inclusive.
func (s *Store) ByRestaurant(ctx context.Context, r menu.Restaurant, from, to time.Time) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE restaurant = ? AND date BETWEEN ? AND ?`+orderBy,
		string(r), dateKey(from), dateKey(to))
}

// ClearBefore deletes menus dated before cutoff and returns how many were
// removed.
func (s *Store) ClearBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menus WHERE date < ?`, dateKey(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	s.logger.Info("old menus purged", "before", dateKey(cutoff), "count", n)
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var date, restaurant, meal, items, version, updated string
		if err := rows.Scan(&date, &restaurant, &meal, &items, &version, &updated); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}

		rec := Record{RulesVersion: version}
		rec.Restaurant = menu.Restaurant(restaurant)
		rec.MealType = menu.MealType(meal)
		if rec.Date, err = time.Parse(menu.DateLayout, date); err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", date, err)
		}
		if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
			return nil, fmt.Errorf("bad stored items for %s: %w", date, err)
		}
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Menus strips provenance from records.
func Menus(recs []Record) []menu.Menu {
	out := make([]menu.Menu, len(recs))
	for i, r := range recs {
		out[i] = r.Menu
	}
	return out
}

func dateKey(t time.Time) string {
	return menu.Day(t).Format(menu.DateLayout)
}
