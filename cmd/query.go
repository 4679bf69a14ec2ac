package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentic-research/marquee/internal/graph"
	"github.com/agentic-research/marquee/internal/shell"
	"github.com/spf13/cobra"
)

// storeRunE loads the dataset and hands it to fn.
func storeRunE(a *app, fn func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, _, err := a.loadStore(cmd.Context())
		if err != nil {
			return err
		}
		return fn(cmd, store, args)
	}
}

func printTitles(w io.Writer, rs []*graph.Record) {
	for _, r := range rs {
		fmt.Fprintf(w, "%s (%d) [%s]\n", r.Title, r.Year, shell.Rating(r.Rating))
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every movie in title order",
		Args:  cobra.NoArgs,
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, _ []string) error {
			printTitles(cmd.OutOrStdout(), store.List())
			return nil
		}),
	}
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <title>",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			r, err := store.Find(args[0])
			if err != nil {
				return err
			}
			shell.WriteDetails(cmd.OutOrStdout(), r)
			return nil
		}),
	}
}

func newAttrCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attr <actor|director|genre>",
		Short: "List movies featuring an actor, director or genre",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			rs, err := store.FindAttribute(args[0])
			if err != nil {
				return err
			}
			printTitles(cmd.OutOrStdout(), rs)
			return nil
		}),
	}
}

func newYearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "year <year>",
		Short: "List movies released in a year",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year %q: %w", args[0], err)
			}
			printTitles(cmd.OutOrStdout(), store.FilterByYear(year))
			return nil
		}),
	}
}

func newRatingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rating <min> <max>",
		Short: "List movies rated within an inclusive range",
		Args:  cobra.ExactArgs(2),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			lo, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("min rating %q: %w", args[0], err)
			}
			hi, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("max rating %q: %w", args[1], err)
			}
			printTitles(cmd.OutOrStdout(), store.FilterByRating(lo, hi))
			return nil
		}),
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		limit int
		dfs   bool
	)
	c := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend related movies (breadth-first unless --dfs)",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			recommend := store.RecommendBFS
			if dfs {
				recommend = store.RecommendDFS
			}
			rs, err := recommend(args[0], limit)
			if err != nil {
				return err
			}
			if len(rs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No related movies found.")
				return nil
			}
			printTitles(cmd.OutOrStdout(), rs)
			return nil
		}),
	}
	c.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recommendations")
	c.Flags().BoolVar(&dfs, "dfs", false, "Walk depth-first instead of breadth-first")
	return c
}

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Shortest chain of related movies between two titles",
		Args:  cobra.ExactArgs(2),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			path, err := store.ShortestPath(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), shell.PathString(path))
			return nil
		}),
	}
}

func newConnectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <person> <person>",
		Short: "Connect two actors or directors through their movies",
		Args:  cobra.ExactArgs(2),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			path, err := store.Connect(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> (Involved: %s)\n", shell.PathString(path), args[1])
			return nil
		}),
	}
}

func newCoActorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coactors <actor>",
		Short: "List actors who appeared alongside an actor",
		Args:  cobra.ExactArgs(1),
		RunE: storeRunE(a, func(cmd *cobra.Command, store *graph.MemoryStore, args []string) error {
			names, err := store.CoActors(args[0])
			if err != nil {
				return err
			}
			if len(names) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			}
			return nil
		}),
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var verify bool
	c := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the loaded dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, loaded, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			st := store.Stats()
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, loaded)
			fmt.Fprintf(w, "Records: %d | Buckets: %d | Edges: %d | Height: %d\n", st.Records, st.Buckets, st.Edges, st.Height)
			if verify {
				if err := store.Verify(); err != nil {
					return errors.Join(errors.New("store invariants violated"), err)
				}
				fmt.Fprintln(w, "Invariants: ok")
			}
			return nil
		},
	}
	c.Flags().BoolVar(&verify, "verify", false, "Check tree, bucket and edge invariants")
	return c
}
