package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marquee.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "movie_metadata.csv", cfg.DataPath)
	assert.Equal(t, 25, cfg.FanOutCap)
	assert.Equal(t, "$[*]", cfg.Selector)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data    = "/srv/movies.db"
fan_out = 10
log_level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/movies.db", cfg.DataPath)
	assert.Equal(t, 10, cfg.FanOutCap)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unset attributes keep their defaults.
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "text", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `data = `))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `unknown_setting = 1`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `fan_out = "many"`))
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := writeConfig(t, `format = "json"`)
	t.Setenv(EnvConfig, path)
	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	explicit := writeConfig(t, `format = "csv"`)
	cfg, err = Resolve(explicit)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Format)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		DataPath:  " ",
		Format:    "xml",
		FanOutCap: -1,
		LogLevel:  "loud",
		LogFormat: "yaml",
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"data path", "xml", "fan_out", "loud", "yaml"} {
		assert.Contains(t, err.Error(), want)
	}
}
