package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	l.LogLoad(context.Background(), "movies.csv", 10, 2, 1, nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "load completed", line["msg"])
	assert.Equal(t, float64(10), line["loaded"])
	assert.Equal(t, float64(1), line["duplicates"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelInfo)

	l.LogInsert(context.Background(), "Alpha", 3, nil)
	assert.Empty(t, buf.String(), "debug output should be filtered at info")

	l.LogLoad(context.Background(), "x.csv", 0, 0, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "load failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	l.Error("nothing to see")
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
