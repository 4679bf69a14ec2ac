package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// StreamSQLite iterates over the movies table of a SQLite database, calling
// fn for each row in rowid order. Only one parsed record is alive at a time.
func StreamSQLite(ctx context.Context, dbPath string, fn func(recordID string, record any) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.QueryContext(ctx, "SELECT id, record FROM movies ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("query movies: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			// Handed to fn as the raw text so the caller can count it.
			parsed = raw
		}
		if err := fn(id, parsed); err != nil {
			return err
		}
	}
	return rows.Err()
}

// loadSQLite copies the database out of l.FS into a temporary file, since
// the driver needs a real path, and streams its rows into the store.
func (l *Loader) loadSQLite(ctx context.Context, path string) (Stats, error) {
	var st Stats
	local, cleanup, err := l.localCopy(path)
	if err != nil {
		return st, err
	}
	defer cleanup()

	line := 0
	err = StreamSQLite(ctx, local, func(id string, record any) error {
		line++
		obj, ok := record.(map[string]any)
		if !ok {
			l.skip(ctx, &st, &RowError{Source: path, Line: line, Reason: fmt.Sprintf("record %s is not a JSON object", id)})
			return nil
		}
		m, reason := decodeMovie(obj)
		if reason != "" {
			l.skip(ctx, &st, &RowError{Source: path, Line: line, Reason: reason})
			return nil
		}
		return l.insert(ctx, &st, path, line, m)
	})
	return st, err
}

func (l *Loader) localCopy(path string) (string, func(), error) {
	src, err := l.FS.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp("", "marquee-*.db")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(dst.Name()) }
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("copy %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst.Name(), cleanup, nil
}
