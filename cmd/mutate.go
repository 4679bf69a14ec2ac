package cmd

import (
	"fmt"
	"strconv"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/shell"
	"github.com/spf13/cobra"
)

// Mutations apply to the in-memory copy only; the dataset on disk is not
// rewritten. Use export to keep the result.

func newUpdateRatingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-rating <title> <rating>",
		Short: "Change a movie's rating and show the result",
		Args:  cobra.ExactArgs(2),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			rating, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("rating %q: %w", args[1], err)
			}
			r, err := store.UpdateRating(args[0], rating)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rating for '%s' updated to %s/10\n", r.Title, shell.Rating(r.Rating))
			return nil
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a movie and show what remains",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Movie '%s' deleted.\n", args[0])
			printTitles(w, store.List())
			return nil
		}),
	}
}
