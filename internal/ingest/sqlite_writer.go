package ingest

import (
	"database/sql"
	"fmt"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/keys"
	_ "modernc.org/sqlite"
)

// SQLiteWriter writes movies into the table StreamSQLite reads. Rows are
// committed in batches; Close commits the remainder.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	batchSize int
	count     int
}

// NewSQLiteWriter creates the movies table in dbPath if needed and opens
// the first batch.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk insert tuning
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS movies (
		id TEXT PRIMARY KEY,
		record TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{db: db, batchSize: 5000}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmt, err = w.tx.Prepare(`INSERT OR REPLACE INTO movies (id, record) VALUES (?, ?)`)
	return err
}

func (w *SQLiteWriter) commitTx() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
	}
	return w.tx.Commit()
}

// Write stores m keyed by its normalized title.
func (w *SQLiteWriter) Write(m api.Movie) error {
	record, err := encodeMovie(m)
	if err != nil {
		return fmt.Errorf("encode %q: %w", m.Title, err)
	}
	if _, err := w.stmt.Exec(keys.Normalize(m.Title), string(record)); err != nil {
		return fmt.Errorf("insert %q: %w", m.Title, err)
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		if err := w.beginTx(); err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		w.count = 0
	}
	return nil
}

func (w *SQLiteWriter) Close() error {
	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	return w.db.Close()
}
