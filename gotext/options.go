package gotext

import "github.com/gogpu/glyphrun"

// Direction is the base text direction of shaped lines.
type Direction uint8

const (
	// DirectionLTR lays text out left to right. Right-to-left scripts
	// inside the text still get their own runs.
	DirectionLTR Direction = iota
	// DirectionRTL lays text out right to left.
	DirectionRTL
	// DirectionTTB lays text out top to bottom.
	DirectionTTB
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRTL:
		return "rtl"
	case DirectionTTB:
		return "ttb"
	default:
		return "ltr"
	}
}

// IsVertical reports whether d is a vertical direction.
func (d Direction) IsVertical() bool { return d == DirectionTTB }

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

// engineConfig holds configuration for Engine.
type engineConfig struct {
	cached    [len(glyphrun.Channels)]bool
	fallbacks []*FontSource
	language  string
	direction Direction
}

// defaultEngineConfig keeps glyph ids and advances as direct buffers;
// positions and string indices are computed on request.
func defaultEngineConfig() engineConfig {
	c := engineConfig{
		language:  "en",
		direction: DirectionLTR,
	}
	c.cached[glyphrun.GlyphIDs] = true
	c.cached[glyphrun.Advances] = true
	return c
}

// WithCachedChannels selects the channels kept as direct buffers. All
// other channels are computed on every access. Passing no channels makes
// every channel computed.
func WithCachedChannels(chs ...glyphrun.Channel) EngineOption {
	return func(c *engineConfig) {
		c.cached = [len(glyphrun.Channels)]bool{}
		for _, ch := range chs {
			if int(ch) < len(c.cached) {
				c.cached[ch] = true
			}
		}
	}
}

// WithFallbackSources registers fonts tried, in order, for characters the
// primary font does not cover.
func WithFallbackSources(sources ...*FontSource) EngineOption {
	return func(c *engineConfig) {
		c.fallbacks = append(c.fallbacks, sources...)
	}
}

// WithLanguage sets the BCP 47 language used for shaping (e.g., "en", "tr").
func WithLanguage(tag string) EngineOption {
	return func(c *engineConfig) {
		c.language = tag
	}
}

// WithDirection sets the base text direction.
func WithDirection(d Direction) EngineOption {
	return func(c *engineConfig) {
		c.direction = d
	}
}

// SourceOption configures FontSource creation.
type SourceOption func(*sourceConfig)

// sourceConfig holds configuration for FontSource.
type sourceConfig struct {
	name string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{}
}

// WithName overrides the family name read from the font.
func WithName(name string) SourceOption {
	return func(c *sourceConfig) {
		c.name = name
	}
}
