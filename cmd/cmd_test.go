package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentic-research/marquee/internal/config"
	"github.com/agentic-research/marquee/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `[
  {"title": "Avatar", "director": "James Cameron", "year": 2009, "rating": 7.9,
   "actors": ["CCH Pounder", "Joel David Moore"], "genres": ["Action", "Sci-Fi"]},
  {"title": "Titanic", "director": "James Cameron", "year": 1997, "rating": 7.7,
   "actors": ["Leonardo DiCaprio", "Kate Winslet"], "genres": ["Drama", "Romance"]},
  {"title": "Inception", "director": "Christopher Nolan", "year": 2010, "rating": 8.8,
   "actors": ["Leonardo DiCaprio", "Tom Hardy"], "genres": ["Action", "Sci-Fi"]},
  {"title": "Loner", "year": 2009},
  {"title": "avatar"}
]`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))
	return path
}

// run executes the command line against a fresh command tree.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestQueryCommands(t *testing.T) {
	data := writeFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"list", []string{"list"}, "Avatar (2009) [7.9]\nInception (2010) [8.8]\nLoner (2009) [0]\nTitanic (1997) [7.7]\n"},
		{"find", []string{"find", "  INCEPTION"}, "Director: Christopher Nolan\n"},
		{"attr", []string{"attr", "leonardo dicaprio"}, "Titanic (1997) [7.7]\nInception (2010) [8.8]\n"},
		{"year", []string{"year", "2009"}, "Avatar (2009) [7.9]\nLoner (2009) [0]\n"},
		{"rating", []string{"rating", "7.8", "9"}, "Avatar (2009) [7.9]\nInception (2010) [8.8]\n"},
		{"recommend", []string{"recommend", "Avatar", "-n", "1"}, "Titanic (1997) [7.7]\n"},
		{"recommend dfs", []string{"recommend", "Avatar", "--dfs"}, "Inception (2010) [8.8]\nTitanic (1997) [7.7]\n"},
		{"recommend none", []string{"recommend", "Loner"}, "No related movies found.\n"},
		{"path", []string{"path", "Avatar", "Inception"}, "[Avatar] -> [Inception]\n"},
		{"connect", []string{"connect", "CCH Pounder", "Kate Winslet"}, "[Avatar] -> [Titanic] -> (Involved: Kate Winslet)\n"},
		{"coactors", []string{"coactors", "Leonardo DiCaprio"}, "Kate Winslet\nTom Hardy\n"},
		{"update-rating", []string{"update-rating", "titanic", "8.2"}, "Rating for 'Titanic' updated to 8.2/10\n"},
		{"delete", []string{"delete", "Avatar"}, "Movie 'Avatar' deleted.\nInception (2010) [8.8]\nLoner (2009) [0]\nTitanic (1997) [7.7]\n"},
		{"stats", []string{"stats", "--verify"}, "Loaded: 4 | Skipped: 0 | Duplicates: 1\nRecords: 4 | Buckets: 11 | Edges: 3 | Height: 3\nInvariants: ok\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", append([]string{"--data", data}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestQueryCommands_Errors(t *testing.T) {
	data := writeFixture(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"find missing", []string{"find", "Nope"}, graph.ErrNotFound},
		{"attr missing", []string{"attr", "Nobody"}, graph.ErrNotFound},
		{"path unreachable", []string{"path", "Avatar", "Loner"}, graph.ErrNoPath},
		{"connect unknown", []string{"connect", "Nobody", "Tom Hardy"}, graph.ErrNotFound},
		{"delete missing", []string{"delete", "Nope"}, graph.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", append([]string{"--data", data}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := run(t, "", "--data", data, "year", "soon")
	require.Error(t, err)
	_, _, err = run(t, "", "--data", filepath.Join(t.TempDir(), "missing.csv"), "list")
	require.Error(t, err)
	_, _, err = run(t, "", "--data", data, "--fan-out", "-1", "list")
	assert.ErrorContains(t, err, "fan_out")
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	data := writeFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "marquee.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
data    = "`+data+`"
fan_out = 0
`), 0o644))

	// fan_out = 0 disables linking, so nothing is reachable.
	_, _, err := run(t, "", "--config", cfgPath, "path", "Avatar", "Inception")
	assert.ErrorIs(t, err, graph.ErrNoPath)

	out, _, err := run(t, "", "--config", cfgPath, "--fan-out", "5", "path", "Avatar", "Inception")
	require.NoError(t, err)
	assert.Equal(t, "[Avatar] -> [Inception]\n", out)

	t.Run("env names the config file", func(t *testing.T) {
		root := newRootCmd()
		t.Setenv(config.EnvConfig, cfgPath)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"list"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Avatar (2009)")
	})
}

func TestLogging(t *testing.T) {
	data := writeFixture(t)
	_, logs, err := run(t, "", "--data", data, "--log-level", "info", "--log-format", "json", "list")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"load completed"`)
	assert.Contains(t, logs, `"duplicates":1`)

	_, logs, err = run(t, "", "--data", data, "list")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestShellCommand(t *testing.T) {
	data := writeFixture(t)
	out, _, err := run(t, "2\nInception\n11\nAvatar\n1\n13\n", "--data", data, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Loading dataset... Finished Loading!\nLoaded: 4 | Skipped: 0 | Duplicates: 1\n")
	assert.Contains(t, out, "Title:    Inception (2010)\n")
	assert.Contains(t, out, "Movie 'Avatar' deleted.\n")
	assert.Contains(t, out, "Inception (2010)\nLoner (2009)\nTitanic (1997)\n")
	assert.NotContains(t, out, "=== MOVIES MANAGER ===")
	assert.True(t, strings.HasSuffix(out, "Exiting...\n"))
}

func TestExportCommand(t *testing.T) {
	data := writeFixture(t)
	dir := t.TempDir()

	for _, name := range []string{"out.json", "out.db"} {
		t.Run(name, func(t *testing.T) {
			target := filepath.Join(dir, name)
			out, _, err := run(t, "", "--data", data, "export", target)
			require.NoError(t, err)
			assert.Equal(t, "Exported 4 movies to "+target+"\n", out)

			out, _, err = run(t, "", "--data", target, "stats")
			require.NoError(t, err)
			assert.Contains(t, out, "Loaded: 4 | Skipped: 0 | Duplicates: 0\n")
		})
	}

	_, _, err := run(t, "", "--data", data, "export", filepath.Join(dir, "out.csv"))
	require.Error(t, err)
}
