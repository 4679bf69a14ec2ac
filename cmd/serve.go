package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset as MCP tools over stdio",
		Long: `Serve loads the dataset and answers MCP tool calls on stdin/stdout.
Send SIGHUP to reload the dataset without dropping the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, st, err := a.loadStore(ctx)
			if err != nil {
				return err
			}
			a.log.Info("serving", "records", store.Len(), "skipped", st.Skipped, "duplicates", st.Duplicates)

			g := graph.NewHotSwapGraph(store)
			stop := a.reloadOnHangup(ctx, g)
			defer stop()

			return mcpserver.New(g, a.log).ServeStdio(version)
		},
	}
}

// reloadOnHangup reloads the dataset into g on every SIGHUP. A failed
// reload keeps the current data.
func (a *app) reloadOnHangup(ctx context.Context, g *graph.HotSwapGraph) func() {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				store, _, err := a.loadStore(ctx)
				if err != nil {
					a.log.Error("reload failed", "error", err)
					continue
				}
				g.Swap(store)
				a.log.Info("reloaded", "records", store.Len())
			}
		}
	}()
	return func() {
		signal.Stop(hup)
		cancel()
	}
}
