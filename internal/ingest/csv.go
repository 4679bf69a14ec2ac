package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/keys"
)

// Column positions in movie_metadata.csv.
const (
	colDirector = 1
	colDuration = 3
	colActor2   = 6
	colGenres   = 9
	colActor1   = 10
	colTitle    = 11
	colActor3   = 14
	colYear     = 23
	colRating   = 25
)

func (l *Loader) loadCSV(ctx context.Context, path string) (Stats, error) {
	var st Stats
	f, err := l.FS.Open(path)
	if err != nil {
		return st, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // read-only

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		return st, fmt.Errorf("read header %s: %w", path, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return st, nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			l.skip(ctx, &st, &RowError{Source: path, Line: perr.Line, Reason: perr.Err.Error()})
			continue
		}
		if err != nil {
			return st, fmt.Errorf("read %s: %w", path, err)
		}

		line, _ := cr.FieldPos(0)
		m, rerr := parseRow(row)
		if rerr != "" {
			l.skip(ctx, &st, &RowError{Source: path, Line: line, Reason: rerr})
			continue
		}
		if err := l.insert(ctx, &st, path, line, m); err != nil {
			return st, err
		}
	}
}

// parseRow maps one CSV row onto a Movie, or returns why it was rejected.
func parseRow(row []string) (api.Movie, string) {
	if len(row) <= colRating {
		return api.Movie{}, fmt.Sprintf("%d fields, want more than %d", len(row), colRating)
	}
	m := api.Movie{
		Title:    keys.Clean(row[colTitle]),
		Duration: toInt(row[colDuration]),
		Year:     toInt(row[colYear]),
		Rating:   toFloat(row[colRating]),
	}
	if m.Title == "" {
		return api.Movie{}, "empty title"
	}
	if d, ok := attribute(row[colDirector]); ok {
		m.Director = d
	}
	for _, col := range []int{colActor1, colActor2, colActor3} {
		if a, ok := attribute(row[col]); ok {
			m.Actors = append(m.Actors, a)
		}
	}
	m.Genres = splitGenres(row[colGenres])
	return m, ""
}

// attribute cleans s and reports whether it is long enough to index.
// Single-character values are placeholders in the source data.
func attribute(s string) (string, bool) {
	s = keys.Clean(s)
	return s, len(s) > 1
}

func splitGenres(s string) []string {
	var out []string
	for _, g := range strings.Split(s, "|") {
		if g, ok := attribute(g); ok {
			out = append(out, g)
		}
	}
	return out
}

// toInt parses the leading integer of s. Anything unparseable is 0.
func toInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// toFloat parses the leading decimal number of s. Anything unparseable is 0.
func toFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
		}
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
