/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Catalog is the user-scoped list of known boards, kept in its own SQLite
// database (by default next to the user config). It is advisory metadata:
// removing an entry never touches the board directory itself.
type Catalog struct {
	db *sql.DB
}

// CatalogEntry is one known board.
type CatalogEntry struct {
	ID        int64
	Name      string
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sort orders for ListBoards.
const (
	CatalogSortName    = "name"
	CatalogSortUpdated = "updated"
	CatalogSortCreated = "created"
)

// OpenCatalog opens (creating if needed) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS boards (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		path       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RegisterBoard adds a board to the catalog or refreshes its name/timestamp
// when the path is already known.
func (c *Catalog) RegisterBoard(ctx context.Context, name, path string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return errors.New("name and path are required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := c.db.ExecContext(ctx, `INSERT INTO boards(name, path, created_at, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(path) DO UPDATE SET name=excluded.name, updated_at=excluded.updated_at`,
		name, path, now, now)
	if err != nil {
		return fmt.Errorf("register board: %w", err)
	}
	return nil
}

// RenameBoard updates the display name for a catalog entry.
func (c *Catalog) RenameBoard(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := c.db.ExecContext(ctx, `UPDATE boards SET name=?, updated_at=? WHERE id=?`, name, now, id)
	if err != nil {
		return fmt.Errorf("rename board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("board %d not found", id)
	}
	return nil
}

// RemoveBoard deletes a catalog entry. The board directory is left alone.
func (c *Catalog) RemoveBoard(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM boards WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("remove board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("board %d not found", id)
	}
	return nil
}

// TouchBoard bumps the updated_at timestamp, typically after a save.
func (c *Catalog) TouchBoard(ctx context.Context, path string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := c.db.ExecContext(ctx, `UPDATE boards SET updated_at=? WHERE path=?`, now, path)
	return err
}

// ListBoards returns catalog entries in the requested sort order.
func (c *Catalog) ListBoards(ctx context.Context, sortBy string) ([]CatalogEntry, error) {
	order := "lower(name) ASC"
	switch sortBy {
	case CatalogSortUpdated:
		order = "updated_at DESC"
	case CatalogSortCreated:
		order = "created_at DESC"
	case CatalogSortName, "":
	default:
		return nil, fmt.Errorf("unknown sort order %q", sortBy)
	}
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, path, created_at, updated_at FROM boards ORDER BY `+order)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()
	var out []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		var created, updated string
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}
