package glyphrun

import "fmt"

// Channel identifies one of the four per-glyph data streams of a run.
// Element i of every channel refers to the same glyph.
type Channel uint8

const (
	// Advances holds one Size per glyph.
	Advances Channel = iota
	// GlyphIDs holds one GlyphID per glyph.
	GlyphIDs
	// Positions holds one Point per glyph, relative to the line origin.
	Positions
	// StringIndices maps each glyph back to the rune offset in the source
	// text it was shaped from.
	StringIndices
)

// Channels lists every channel in declaration order.
var Channels = [...]Channel{Advances, GlyphIDs, Positions, StringIndices}

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case Advances:
		return "advances"
	case GlyphIDs:
		return "glyphs"
	case Positions:
		return "positions"
	case StringIndices:
		return "string-indices"
	default:
		return fmt.Sprintf("Channel(%d)", uint8(c))
	}
}

// ParseChannel returns the channel named s, as produced by String.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("glyphrun: unknown channel %q", s)
}
