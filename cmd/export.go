package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/agentic-research/marquee/api"
	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/ingest"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "export <output.json|output.db>",
		Short: "Write the loaded dataset as JSON or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			out, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			records := store.List()
			movies := make([]api.Movie, len(records))
			for i, r := range records {
				movies[i] = r.Movie()
			}
			if err := ingest.Export(cmd.Context(), osfs.New("/"), out, format, movies); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d movies to %s\n", len(movies), args[0])
			return nil
		}),
	}
	c.Flags().StringVar(&format, "to", ingest.FormatAuto, "Output format: auto, json or sqlite")
	return c
}
