package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphrun"
	"github.com/gogpu/glyphrun/memengine"
)

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] TEXT",
		Short: "Shape text and save its runs",
		Long:  `Dump shapes TEXT and writes every run to a msgpack file that inspect can read back without the fonts.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.withFlags(cmd)
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.shape(args[0])
			if err != nil {
				return err
			}
			data := make([]glyphrun.RunData, len(runs))
			for i, run := range runs {
				if data[i], err = glyphrun.ReadAll(cmd.Context(), run); err != nil {
					return fmt.Errorf("run %d: %w", i, err)
				}
			}

			if output == "-" {
				return memengine.Dump(cmd.OutOrStdout(), args[0], data)
			}
			if err := writeFile(output, func(w io.Writer) error {
				return memengine.Dump(w, args[0], data)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d runs to %s\n", len(runs), output)
			return nil
		},
	}
	addShapeFlags(cmd)
	cmd.Flags().StringP("output", "o", "runs.msgpack", "output file, or - for stdout")
	return cmd
}

// writeFile creates path and writes it with fn, removing the file when
// fn fails.
func writeFile(path string, fn func(io.Writer) error) error {
	// #nosec G304 -- output path is provided by the user
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
