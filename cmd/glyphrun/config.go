package main

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/gogpu/glyphrun"
	"github.com/gogpu/glyphrun/gotext"
)

// config is the shaping setup, read from an optional TOML file and then
// overridden by command-line flags.
//
//	font = "go"
//	fallbacks = ["go-mono", "/usr/share/fonts/NotoSansHebrew.ttf"]
//	size = 16
//	language = "en"
//	direction = "ltr"
//	cached = ["glyphs", "advances"]
type config struct {
	Font      string   `toml:"font"`
	Fallbacks []string `toml:"fallbacks"`
	Size      float64  `toml:"size"`
	Language  string   `toml:"language"`
	Direction string   `toml:"direction"`
	Cached    []string `toml:"cached"`

	// cachedSet records whether Cached was given, so that an empty list
	// can mean "compute every channel".
	cachedSet bool
}

func defaultConfig() config {
	return config{
		Font:      "go",
		Size:      16,
		Language:  "en",
		Direction: "ltr",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	cfg.cachedSet = meta.IsDefined("cached")
	if err := cfg.validate(); err != nil {
		return config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.Font == "" {
		return fmt.Errorf("no font configured")
	}
	if c.Size <= 0 || math.IsInf(c.Size, 0) || math.IsNaN(c.Size) {
		return fmt.Errorf("invalid size %v", c.Size)
	}
	if _, err := c.direction(); err != nil {
		return err
	}
	if _, err := c.cachedChannels(); err != nil {
		return err
	}
	if _, err := glyphrun.CanonicalLanguages([]string{c.Language}); err != nil {
		return err
	}
	return nil
}

func (c config) direction() (gotext.Direction, error) {
	switch c.Direction {
	case "", "ltr":
		return gotext.DirectionLTR, nil
	case "rtl":
		return gotext.DirectionRTL, nil
	case "ttb":
		return gotext.DirectionTTB, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want ltr, rtl or ttb)", c.Direction)
	}
}

func (c config) cachedChannels() ([]glyphrun.Channel, error) {
	chs := make([]glyphrun.Channel, 0, len(c.Cached))
	for _, name := range c.Cached {
		ch, err := glyphrun.ParseChannel(name)
		if err != nil {
			return nil, err
		}
		chs = append(chs, ch)
	}
	return chs, nil
}

// addShapeFlags registers the flags that override config on cmd.
func addShapeFlags(cmd *cobra.Command) {
	cmd.Flags().String("font", "", "font file, or go, go-mono, go-bold")
	cmd.Flags().StringSlice("fallback", nil, "fallback font files, tried in order")
	cmd.Flags().Float64("size", 0, "font size in pixels per em")
	cmd.Flags().String("lang", "", "BCP 47 language used for shaping")
	cmd.Flags().String("dir", "", "base direction (ltr|rtl|ttb)")
	cmd.Flags().StringSlice("cache", nil, "channels kept as engine buffers (advances, glyphs, positions, string-indices)")
}

// withFlags returns c with every flag the user set on cmd applied.
func (c config) withFlags(cmd *cobra.Command) (config, error) {
	flags := cmd.Flags()
	var err error
	if flags.Changed("font") {
		c.Font, err = flags.GetString("font")
	}
	if err == nil && flags.Changed("fallback") {
		c.Fallbacks, err = flags.GetStringSlice("fallback")
	}
	if err == nil && flags.Changed("size") {
		c.Size, err = flags.GetFloat64("size")
	}
	if err == nil && flags.Changed("lang") {
		c.Language, err = flags.GetString("lang")
	}
	if err == nil && flags.Changed("dir") {
		c.Direction, err = flags.GetString("dir")
	}
	if err == nil && flags.Changed("cache") {
		c.Cached, err = flags.GetStringSlice("cache")
		c.cachedSet = true
	}
	if err != nil {
		return config{}, err
	}
	return c, c.validate()
}
