// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest records the model files downloaded into the
// cache folder in a sqlite database.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Filename is the default name of the manifest database in the cache folder.
const Filename = "manifest.db"

// Entry is one downloaded file.
type Entry struct {
	URL       string    `json:"url" yaml:"url"`
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	FetchedAt time.Time `json:"fetchedAt" yaml:"fetchedAt"`
}

// Store is a download manifest backed by sqlite.
type Store struct {
	db *sql.DB

	// now returns the current time; time.Now if nil.
	now func() time.Time
}

const createDownloads = `
CREATE TABLE IF NOT EXISTS downloads (
	url TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	size INTEGER NOT NULL DEFAULT 0,
	fetched_at DATETIME NOT NULL
);`

// Open opens the manifest database at the given path,
// creating it and its folder if needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("manifest: creating folder: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: opening %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest: opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(createDownloads); err != nil {
		db.Close()
		return nil, fmt.Errorf("manifest: creating downloads table: %w", err)
	}
	slog.Info("manifest: opened", "path", dbPath)
	return &Store{db: db}, nil
}

// RecordDownload records a completed download, replacing any previous
// entry for the same url.
func (st *Store) RecordDownload(ctx context.Context, url, path string, size int64) error {
	now := time.Now
	if st.now != nil {
		now = st.now
	}
	_, err := st.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO downloads (url, path, size, fetched_at) VALUES (?, ?, ?, ?)`,
		url, path, size, now().UTC())
	if err != nil {
		return fmt.Errorf("manifest: recording %s: %w", url, err)
	}
	return nil
}

// List returns all entries, most recent first.
func (st *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT url, path, size, fetched_at FROM downloads ORDER BY fetched_at DESC, url`)
	if err != nil {
		return nil, fmt.Errorf("manifest: listing: %w", err)
	}
	defer rows.Close()
	var es []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.URL, &e.Path, &e.Size, &e.FetchedAt); err != nil {
			return nil, fmt.Errorf("manifest: listing: %w", err)
		}
		es = append(es, e)
	}
	return es, rows.Err()
}

// Close closes the database.
func (st *Store) Close() error {
	return st.db.Close()
}
