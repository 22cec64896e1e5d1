package main

import (
	"github.com/spf13/cobra"
)

func newShapeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shape [flags] TEXT",
		Short: "Shape text and print its runs",
		Long:  `Shape lays TEXT out as one line and prints the glyph, advance, position and string index of every glyph, run by run.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.withFlags(cmd)
			if err != nil {
				return err
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
			return printRuns(cmd.OutOrStdout(), []rune(args[0]), runs)
		},
	}
	addShapeFlags(cmd)
	return cmd
}
