// Package ingest loads movie datasets into a store. Sources are CSV files
// in the movie_metadata.csv layout, JSON documents and SQLite databases,
// all read through a billy.Filesystem.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/logging"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultSelector picks every element of a top-level JSON array.
const DefaultSelector = "$[*]"

// Supported values for Loader.Format. FormatAuto picks by file extension.
const (
	FormatAuto   = "auto"
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// ErrUnsupportedFormat is returned when a file's format cannot be determined.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Target is where loaded movies go. graph.MemoryStore and
// graph.HotSwapGraph both satisfy it.
type Target interface {
	Insert(m api.Movie) (*graph.Record, error)
}

// Stats counts the outcome of a load.
type Stats struct {
	Loaded     int
	Skipped    int
	Duplicates int
}

func (s *Stats) add(o Stats) {
	s.Loaded += o.Loaded
	s.Skipped += o.Skipped
	s.Duplicates += o.Duplicates
}

func (s Stats) String() string {
	return fmt.Sprintf("Loaded: %d | Skipped: %d | Duplicates: %d", s.Loaded, s.Skipped, s.Duplicates)
}

// RowError describes a row that was skipped. Line is the physical line for
// CSV sources, the match ordinal for JSON and the row ordinal for SQLite.
type RowError struct {
	Source string
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// Loader reads datasets and inserts every movie into Store. Malformed rows
// are skipped and counted; only I/O failures abort a load.
type Loader struct {
	FS       billy.Filesystem
	Store    Target
	Format   string // FormatAuto when empty
	Selector string // JSONPath for JSON sources; DefaultSelector when empty
	Walker   Walker // JSON query engine; a JsonWalker when nil
	Log      *logging.Logger
}

// NewLoader returns a Loader reading the host filesystem. Paths given to
// its Load are taken from the filesystem root, so pass absolute paths.
func NewLoader(store Target, log *logging.Logger) *Loader {
	return &Loader{
		FS:    osfs.New("/"),
		Store: store,
		Log:   log,
	}
}

// Load processes a file or directory. Directories are walked and files
// with unrecognized extensions inside them are ignored.
func (l *Loader) Load(ctx context.Context, path string) (Stats, error) {
	if l.Log == nil {
		l.Log = logging.NoopLogger()
	}
	if l.Walker == nil {
		l.Walker = NewJsonWalker()
	}
	var total Stats
	info, err := l.FS.Stat(path)
	if err != nil {
		l.Log.LogLoad(ctx, path, 0, 0, 0, err)
		return total, err
	}

	if info.IsDir() {
		err = util.Walk(l.FS, path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			st, err := l.loadFile(ctx, p)
			if errors.Is(err, ErrUnsupportedFormat) {
				return nil
			}
			total.add(st)
			return err
		})
	} else {
		var st Stats
		st, err = l.loadFile(ctx, path)
		total.add(st)
	}
	l.Log.LogLoad(ctx, path, total.Loaded, total.Skipped, total.Duplicates, err)
	return total, err
}

func (l *Loader) loadFile(ctx context.Context, path string) (Stats, error) {
	format, err := l.formatOf(path)
	if err != nil {
		return Stats{}, err
	}
	switch format {
	case FormatCSV:
		return l.loadCSV(ctx, path)
	case FormatJSON:
		return l.loadJSON(ctx, path)
	default:
		return l.loadSQLite(ctx, path)
	}
}

func (l *Loader) formatOf(path string) (string, error) {
	switch f := strings.ToLower(l.Format); f {
	case "", FormatAuto:
	case FormatCSV, FormatJSON, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("format %q: %w", l.Format, ErrUnsupportedFormat)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// insert files m into the store and counts the outcome. Only errors other
// than a rejected title are returned.
func (l *Loader) insert(ctx context.Context, st *Stats, source string, line int, m api.Movie) error {
	_, err := l.Store.Insert(m)
	switch {
	case err == nil:
		st.Loaded++
	case errors.Is(err, graph.ErrDuplicateKey):
		st.Duplicates++
	case errors.Is(err, graph.ErrEmptyKey):
		l.skip(ctx, st, &RowError{Source: source, Line: line, Reason: "empty title"})
	default:
		return err
	}
	return nil
}

func (l *Loader) skip(ctx context.Context, st *Stats, rerr *RowError) {
	st.Skipped++
	l.Log.DebugContext(ctx, "row skipped", "source", rerr.Source, "line", rerr.Line, "reason", rerr.Reason)
}
