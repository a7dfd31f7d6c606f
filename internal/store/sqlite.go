package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/campuskit/reclaim/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_type_status ON items(type, status);

CREATE TABLE IF NOT EXISTS matches (
	id            TEXT PRIMARY KEY,
	lost_item_id  TEXT NOT NULL REFERENCES items(id),
	found_item_id TEXT NOT NULL REFERENCES items(id),
	similarity    REAL NOT NULL,
	confidence    TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	match_type    TEXT NOT NULL DEFAULT 'ai_generated',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(lost_item_id, found_item_id)
);

CREATE INDEX IF NOT EXISTS idx_matches_lost ON matches(lost_item_id);
CREATE INDEX IF NOT EXISTS idx_matches_found ON matches(found_item_id);
`

// SQLiteStore wraps a sql.DB with item and match operations.
type SQLiteStore struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLiteStore) CreateItem(ctx context.Context, item *model.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO items (id, title, description, category, location, type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Description, item.Category, item.Location, string(item.Type), item.Status, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, title, description, category, location, type, status, created_at
		FROM items WHERE id = ?
	`, id)

	var it model.Item
	var typ string
	err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.Location, &typ, &it.Status, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get item: %w", err)
	}
	it.Type = model.ItemType(typ)
	return &it, nil
}

func (s *SQLiteStore) ListItems(ctx context.Context, typ model.ItemType, excludeID, status string) ([]model.Item, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, title, description, category, location, type, status, created_at
		FROM items
		WHERE type = ? AND id != ? AND status = ?
		ORDER BY created_at, id
	`, string(typ), excludeID, status)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var t string
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.Location, &t, &it.Status, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan item: %w", err)
		}
		it.Type = model.ItemType(t)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) CreateMatch(ctx context.Context, m *model.Match) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	// INSERT OR IGNORE keeps the unordered-pair invariant under concurrent
	// auto-match runs; the UNIQUE constraint is the arbiter.
	res, err := s.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO matches (id, lost_item_id, found_item_id, similarity, confidence, status, match_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.LostItemID, m.FoundItemID, m.Similarity, string(m.Confidence), m.Status, m.MatchType, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("store: match for pair (%s, %s) already exists", m.LostItemID, m.FoundItemID)
	}
	return nil
}

func (s *SQLiteStore) MatchExists(ctx context.Context, lostItemID, foundItemID string) (bool, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM matches WHERE lost_item_id = ? AND found_item_id = ?
	`, lostItemID, foundItemID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: match exists: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListMatchesForItem(ctx context.Context, itemID string) ([]model.Match, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, lost_item_id, found_item_id, similarity, confidence, status, match_type, created_at
		FROM matches
		WHERE lost_item_id = ? OR found_item_id = ?
		ORDER BY similarity DESC, created_at
	`, itemID, itemID)
	if err != nil {
		return nil, fmt.Errorf("store: list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var conf string
		if err := rows.Scan(&m.ID, &m.LostItemID, &m.FoundItemID, &m.Similarity, &conf, &m.Status, &m.MatchType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan match: %w", err)
		}
		m.Confidence = model.Confidence(conf)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate matches: %w", err)
	}
	return matches, nil
}
