package cmd

import (
	"fmt"
	"os"

	"github.com/agentic-research/marquee/internal/shell"
	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Load the dataset and open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprint(w, "Loading dataset... ")
			store, st, err := a.loadStore(cmd.Context())
			if err != nil {
				fmt.Fprintln(w)
				return err
			}
			fmt.Fprintln(w, "Finished Loading!")
			fmt.Fprintln(w, st)

			in := cmd.InOrStdin()
			sh := shell.New(store, in, w)
			if f, ok := in.(*os.File); ok {
				sh.Interactive = shell.IsTerminal(f)
			}
			return sh.Run(cmd.Context())
		},
	}
}
