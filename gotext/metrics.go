package gotext

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphrun"
)

// TypographicBounds implements glyphrun.Engine. The width is the sum of
// the advances in r; ascent, descent and leading come from the font of
// the run at its size. Leading is the line gap, never negative.
func (e *Engine) TypographicBounds(h glyphrun.RunHandle, r glyphrun.Range) (glyphrun.TypographicBounds, error) {
	st, err := e.run(h)
	if err != nil {
		return glyphrun.TypographicBounds{}, err
	}
	span, err := r.Resolve(len(st.glyphs))
	if err != nil {
		return glyphrun.TypographicBounds{}, err
	}

	var tb glyphrun.TypographicBounds
	for i := span.Location; i < span.End(); i++ {
		tb.Width += st.advance(i)
	}

	var buf sfnt.Buffer
	m, err := st.font.source.sfnt.Metrics(&buf, floatToFixed(st.font.size), font.HintingNone)
	if err != nil {
		return glyphrun.TypographicBounds{}, err
	}
	tb.Ascent = fixedToFloat(m.Ascent)
	tb.Descent = fixedToFloat(m.Descent)
	tb.Leading = math.Max(0, fixedToFloat(m.Height-m.Ascent-m.Descent))
	return tb, nil
}

// BoundingRects implements glyphrun.FontEngine. Each rect is relative to
// the glyph origin in image space. Vertical glyphs are centred on the
// vertical baseline with their top at the origin.
func (e *Engine) BoundingRects(f glyphrun.FontHandle, glyphs []glyphrun.GlyphID, o glyphrun.Orientation) (glyphrun.Rect, []glyphrun.Rect, error) {
	fs, err := e.font(f)
	if err != nil {
		return glyphrun.Rect{}, nil, err
	}

	ppem := floatToFixed(fs.size)
	var buf sfnt.Buffer
	var ascent float64
	if o == glyphrun.OrientationVertical {
		m, err := fs.source.sfnt.Metrics(&buf, ppem, font.HintingNone)
		if err != nil {
			return glyphrun.Rect{}, nil, err
		}
		ascent = fixedToFloat(m.Ascent)
	}

	var overall glyphrun.Rect
	rects := make([]glyphrun.Rect, len(glyphs))
	for i, g := range glyphs {
		b, adv, err := fs.source.sfnt.GlyphBounds(&buf, sfnt.GlyphIndex(g), ppem, font.HintingNone)
		if err != nil {
			return glyphrun.Rect{}, nil, &GlyphError{Glyph: g, Err: err}
		}
		rect := rectFromFixed(b)
		if o == glyphrun.OrientationVertical {
			rect = rect.Translate(-fixedToFloat(adv)/2, ascent)
		}
		rects[i] = rect
		overall = overall.Union(rect)
	}
	return overall, rects, nil
}

func rectFromFixed(b fixed.Rectangle26_6) glyphrun.Rect {
	return glyphrun.Rect{
		MinX: fixedToFloat(b.Min.X),
		MinY: fixedToFloat(b.Min.Y),
		MaxX: fixedToFloat(b.Max.X),
		MaxY: fixedToFloat(b.Max.Y),
	}
}
