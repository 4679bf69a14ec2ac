// Package config holds marquee's settings. Values come from built-in
// defaults, then an optional HCL file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/ingest"
	"github.com/agentic-research/marquee/internal/logging"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// EnvConfig names a config file used when --config is not given.
const EnvConfig = "MARQUEE_CONFIG"

// Config is the decoded form of a config file:
//
//	data       = "movie_metadata.csv"
//	format     = "auto"
//	select     = "$[*]"
//	fan_out    = 25
//	log_level  = "warn"
//	log_format = "text"
type Config struct {
	DataPath  string `hcl:"data,optional"`
	Format    string `hcl:"format,optional"`
	Selector  string `hcl:"select,optional"`
	FanOutCap int    `hcl:"fan_out,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}

func Default() Config {
	return Config{
		DataPath:  "movie_metadata.csv",
		Format:    ingest.FormatAuto,
		Selector:  ingest.DefaultSelector,
		FanOutCap: graph.DefaultFanOutCap,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load decodes path over the defaults. Attributes missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns the config for an explicit path, or for the file named by
// MARQUEE_CONFIG, or the defaults when neither is set.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataPath) == "" {
		errs = append(errs, errors.New("data path is empty"))
	}
	switch strings.ToLower(c.Format) {
	case "", ingest.FormatAuto, ingest.FormatCSV, ingest.FormatJSON, ingest.FormatSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if c.FanOutCap < 0 {
		errs = append(errs, fmt.Errorf("fan_out must be >= 0, got %d", c.FanOutCap))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
