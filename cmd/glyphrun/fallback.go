package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFallbackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fallback [flags]",
		Short: "Print the fallback fonts of the primary font",
		Long:  `Fallback prints the languages the primary font covers and the fallback fonts in the order they match the preferred languages.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.withFlags(cmd)
			if err != nil {
				return err
			}
			prefer, err := cmd.Flags().GetStringSlice("prefer")
			if err != nil {
				return fmt.Errorf("failed to get prefer flag: %w", err)
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			_, desc, err := s.font.GraphicsFont()
			if err != nil {
				return err
			}
			langs, err := s.font.SupportedLanguages()
			if err != nil {
				return err
			}
			titleColor.Fprintln(w, desc.String())
			fmt.Fprintf(w, "languages: %s\n", strings.Join(langs, ", "))

			list, err := s.font.DefaultCascadeList(prefer)
			if err != nil {
				return err
			}
			if list == nil {
				dimColor.Fprintln(w, "no fallback fonts")
				return nil
			}
			headerColor.Fprintln(w, "fallbacks:")
			for i, d := range list {
				fmt.Fprintf(w, "%2d. %s", i+1, d.Family)
				dimColor.Fprintf(w, " (%s)\n", strings.Join(d.Languages, ", "))
			}
			return nil
		},
	}
	addShapeFlags(cmd)
	cmd.Flags().StringSlice("prefer", nil, "preferred languages, most preferred first")
	return cmd
}
