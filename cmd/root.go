package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/agentic-research/marquee/internal/config"
	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/ingest"
	"github.com/agentic-research/marquee/internal/logging"
	"github.com/spf13/cobra"
)

// version is overridden at link time.
var version = "dev"

// app carries the settings resolved before any subcommand runs.
type app struct {
	configPath string
	flags      config.Config

	cfg config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "marquee",
		Short:         "Marquee: a movie catalogue with relationship search",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	def := config.Default()
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to an HCL config file (default $"+config.EnvConfig+")")
	pf.StringVarP(&a.flags.DataPath, "data", "d", def.DataPath, "Dataset file or directory (.csv, .json, .db)")
	pf.StringVar(&a.flags.Format, "format", def.Format, "Dataset format: auto, csv, json or sqlite")
	pf.StringVar(&a.flags.Selector, "select", def.Selector, "JSONPath selecting movie objects in JSON sources")
	pf.IntVar(&a.flags.FanOutCap, "fan-out", def.FanOutCap, "Maximum links made per attribute on insert")
	pf.StringVar(&a.flags.LogLevel, "log-level", def.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&a.flags.LogFormat, "log-format", def.LogFormat, "Log format: text or json")

	root.AddCommand(
		newShellCmd(a),
		newListCmd(a),
		newFindCmd(a),
		newAttrCmd(a),
		newYearCmd(a),
		newRatingCmd(a),
		newRecommendCmd(a),
		newPathCmd(a),
		newConnectCmd(a),
		newCoActorsCmd(a),
		newStatsCmd(a),
		newUpdateRatingCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)
	return root
}

// resolve layers the config file under explicitly set flags.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.DataPath = a.flags.DataPath
	}
	if f.Changed("format") {
		cfg.Format = a.flags.Format
	}
	if f.Changed("select") {
		cfg.Selector = a.flags.Selector
	}
	if f.Changed("fan-out") {
		cfg.FanOutCap = a.flags.FanOutCap
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = a.flags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// loadStore builds a store from the configured dataset.
func (a *app) loadStore(ctx context.Context) (*graph.MemoryStore, ingest.Stats, error) {
	store := graph.NewMemoryStore(
		graph.WithFanOutCap(a.cfg.FanOutCap),
		graph.WithLogger(a.log),
	)
	path, err := filepath.Abs(a.cfg.DataPath)
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	l := ingest.NewLoader(store, a.log)
	l.Format = a.cfg.Format
	l.Selector = a.cfg.Selector
	st, err := l.Load(ctx, path)
	if err != nil {
		return nil, st, fmt.Errorf("load %s: %w", a.cfg.DataPath, err)
	}
	return store, st, nil
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
