// Package store is the persistence collaborator behind the engine: a local
// SQLite database of items plus a JSONL journal of published change batches.
// The engine never talks to it directly; it consumes change batches and
// re-supplies authoritative snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sortable-cli/internal/model"
)

const (
	dbFileName      = "board.sqlite"
	journalFileName = "changes.jsonl"
)

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .sortable directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".sortable")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".sortable"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string  { return filepath.Join(s.Dir, dbFileName) }
func (s Store) journalPath() string { return filepath.Join(s.Dir, journalFileName) }

func (s Store) Open(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			parent_item_id TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_list ON items(list_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_item_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Row is one stored item. ParentItemID is non-empty when the item has been
// associated onto another by an "on" drop.
type Row struct {
	Item         model.Item
	ParentItemID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemsForList returns the top-level (unattached) items of one list, ordered
// by position then id. This is the authoritative data-source collection the
// engine rebuilds snapshots from.
func (s Store) ItemsForList(ctx context.Context, listID string) ([]model.Item, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return itemsForList(ctx, db, listID)
}

func itemsForList(ctx context.Context, db *sql.DB, listID string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, list_id, position, title FROM items
		 WHERE list_id = ? AND parent_item_id = ''
		 ORDER BY position, id`, strings.TrimSpace(listID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Position, &it.Title); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AttachedTo returns the items associated onto parentID by "on" drops.
func (s Store) AttachedTo(ctx context.Context, parentID string) ([]model.Item, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, list_id, position, title FROM items
		 WHERE parent_item_id = ? ORDER BY position, id`, strings.TrimSpace(parentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.ListID, &it.Position, &it.Title); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AttachmentCounts returns attached-children counts keyed by parent id.
func (s Store) AttachmentCounts(ctx context.Context) (map[string]int, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT parent_item_id, COUNT(1) FROM items
		 WHERE parent_item_id != '' GROUP BY parent_item_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var parent string
		var n int
		if err := rows.Scan(&parent, &n); err != nil {
			return nil, err
		}
		out[parent] = n
	}
	return out, rows.Err()
}

// AddItem appends a new item at the end of a list and returns it.
func (s Store) AddItem(ctx context.Context, listID, title string) (model.Item, error) {
	listID = strings.TrimSpace(listID)
	title = strings.TrimSpace(title)
	if listID == "" {
		return model.Item{}, errors.New("missing list id")
	}
	if title == "" {
		return model.Item{}, errors.New("missing title")
	}

	db, err := s.Open(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer db.Close()

	var next int
	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM items WHERE list_id = ? AND parent_item_id = ''`,
		listID).Scan(&next)
	if err != nil {
		return model.Item{}, err
	}

	it := model.Item{
		ID:       "item-" + uuid.NewString(),
		ListID:   listID,
		Position: next,
		Title:    title,
	}
	nowMs := time.Now().UTC().UnixMilli()
	_, err = db.ExecContext(ctx,
		`INSERT INTO items(id, list_id, position, title, parent_item_id, created_at_unixms, updated_at_unixms)
		 VALUES(?, ?, ?, ?, '', ?, ?)`,
		it.ID, it.ListID, it.Position, it.Title, nowMs, nowMs)
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// RemoveItem deletes an item and anything attached onto it.
func (s Store) RemoveItem(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("missing item id")
	}
	db, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ? OR parent_item_id = ?`, id, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}
