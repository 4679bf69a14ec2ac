package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/marquee/api"
	"github.com/go-git/go-billy/v5"
)

// Export writes movies to path in fs in a form Load reads back: a JSON
// array for FormatJSON, a movies table for FormatSQLite. format may be
// FormatAuto to pick by extension.
func Export(ctx context.Context, fs billy.Filesystem, path, format string, movies []api.Movie) error {
	format, err := (&Loader{Format: format}).formatOf(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return exportJSON(fs, path, movies)
	case FormatSQLite:
		return exportSQLite(ctx, fs, path, movies)
	}
	return fmt.Errorf("export %s as %s: %w", path, format, ErrUnsupportedFormat)
}

func exportJSON(fs billy.Filesystem, path string, movies []api.Movie) error {
	if movies == nil {
		movies = []api.Movie{}
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(movies); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// exportSQLite builds the database in a temporary file and copies it into fs.
func exportSQLite(ctx context.Context, fs billy.Filesystem, path string, movies []api.Movie) error {
	tmp, err := os.CreateTemp("", "marquee-export-*.db")
	if err != nil {
		return err
	}
	name := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(name) }()

	w, err := NewSQLiteWriter(name)
	if err != nil {
		return err
	}
	for _, m := range movies {
		if err := ctx.Err(); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Write(m); err != nil {
			_ = w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	dst, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return dst.Close()
}
