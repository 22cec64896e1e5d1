package gotext

import (
	"math"

	"fortio.org/safecast"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphrun"
)

// rawGlyph is the part of a shaped glyph every channel is derived from.
type rawGlyph struct {
	id      font.GID
	advance fixed.Int26_6
	xOffset fixed.Int26_6
	yOffset fixed.Int26_6
	cluster int
}

// shapeItem shapes runes[it.start:it.end] with HarfBuzz. The returned
// glyphs are in visual order; their clusters index into runes.
func (e *Engine) shapeItem(runes []rune, it item, size float64) []rawGlyph {
	dir := di.DirectionLTR
	switch {
	case e.config.direction.IsVertical():
		dir = di.DirectionTTB
	case it.isRTL():
		dir = di.DirectionRTL
	}

	// font.Face is not safe for concurrent use, so each call gets its
	// own. NewFace only wraps the shared, read-only *font.Font.
	input := shaping.Input{
		Text:      runes,
		RunStart:  it.start,
		RunEnd:    it.end,
		Direction: dir,
		Face:      font.NewFace(it.source.shape),
		Size:      floatToFixed(size),
		Script:    it.script,
		Language:  language.NewLanguage(e.config.language),
	}

	hb := e.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	e.shaperPool.Put(hb)

	glyphs := make([]rawGlyph, len(output.Glyphs))
	for i, g := range output.Glyphs {
		glyphs[i] = rawGlyph{
			id:      g.GlyphID,
			advance: g.Advance,
			xOffset: g.XOffset,
			yOffset: g.YOffset,
			cluster: g.TextIndex(),
		}
	}
	return glyphs
}

// glyphID narrows a go-text glyph id to the 16 bits OpenType allows.
func glyphID(g font.GID) (glyphrun.GlyphID, error) {
	v, err := safecast.Conv[uint16](g)
	if err != nil {
		return 0, err
	}
	return glyphrun.GlyphID(v), nil
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
