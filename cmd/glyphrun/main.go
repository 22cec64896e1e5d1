// Command glyphrun shapes text and prints, dumps and renders the
// per-glyph data of the resulting runs.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/glyphrun"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfg        config
	configPath string
	colorMode  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig()}

	rootCmd := &cobra.Command{
		Use:           "glyphrun",
		Short:         "Inspect the glyph runs of shaped text",
		Long:          `glyphrun shapes text with go-text/typesetting and shows the glyphs, advances, positions and string indices of every run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log engine activity to stderr")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(
		newShapeCmd(a),
		newDumpCmd(a),
		newInspectCmd(),
		newFallbackCmd(a),
		newDrawCmd(a),
	)
	return rootCmd
}

// setup loads the configuration file and applies the global flags.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := loadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	switch a.colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unknown color mode %q (want auto, on or off)", a.colorMode)
	}

	if a.verbose {
		glyphrun.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
