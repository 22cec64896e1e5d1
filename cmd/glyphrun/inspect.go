package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphrun/memengine"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the runs saved by dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// #nosec G304 -- dump path is provided by the user
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e := memengine.New()
			source, runs, err := memengine.LoadInto(e, f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if source != "" {
				titleColor.Fprintf(cmd.OutOrStdout(), "text %q\n\n", source)
			}
			return printRuns(cmd.OutOrStdout(), []rune(source), runs)
		},
	}
}
