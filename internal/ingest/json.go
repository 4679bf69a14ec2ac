package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/keys"
)

func (l *Loader) loadJSON(ctx context.Context, path string) (Stats, error) {
	var st Stats
	f, err := l.FS.Open(path)
	if err != nil {
		return st, fmt.Errorf("open %s: %w", path, err)
	}
	content, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return st, fmt.Errorf("read %s: %w", path, err)
	}

	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return st, fmt.Errorf("failed to parse json %s: %w", path, err)
	}

	selector := l.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	matches, err := l.Walker.Query(data, selector)
	if err != nil {
		return st, err
	}

	for i, match := range matches {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if _, ok := match.Context().(map[string]any); !ok {
			l.skip(ctx, &st, &RowError{Source: path, Line: i + 1, Reason: "not an object"})
			continue
		}
		m, reason := decodeMovie(match.Values())
		if reason != "" {
			l.skip(ctx, &st, &RowError{Source: path, Line: i + 1, Reason: reason})
			continue
		}
		if err := l.insert(ctx, &st, path, i+1, m); err != nil {
			return st, err
		}
	}
	return st, nil
}

// decodeMovie reads the object form of a movie. Numbers may be JSON
// numbers or numeric strings; list fields may be arrays or '|'-separated
// strings.
func decodeMovie(obj map[string]any) (api.Movie, string) {
	title, _ := obj["title"].(string)
	title = keys.Clean(title)
	if title == "" {
		return api.Movie{}, "missing title"
	}
	m := api.Movie{
		Title:    title,
		Year:     int(number(obj["year"])),
		Rating:   number(obj["rating"]),
		Duration: int(number(obj["duration"])),
	}
	if d, ok := obj["director"].(string); ok {
		if d, ok := attribute(d); ok {
			m.Director = d
		}
	}
	m.Actors = stringList(obj["actors"])
	m.Genres = stringList(obj["genres"])
	return m, ""
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case json.Number:
		return toFloat(n.String())
	case string:
		return toFloat(n)
	}
	return 0
}

func stringList(v any) []string {
	var raw []string
	switch l := v.(type) {
	case []any:
		for _, item := range l {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = l
	case string:
		raw = strings.Split(l, "|")
	}
	var out []string
	for _, s := range raw {
		if s, ok := attribute(s); ok {
			out = append(out, s)
		}
	}
	return out
}

// encodeMovie is the object form decodeMovie reads.
func encodeMovie(m api.Movie) ([]byte, error) {
	return json.Marshal(m)
}
