package gotext

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphrun"
)

// DrawGlyphs implements glyphrun.FontEngine. Each glyph outline is
// rasterized with its origin at the given position, relative to the
// top-left corner of dst.Dst, and composited over it in dst.Color
// (black when nil). Glyphs without an outline, such as spaces, draw
// nothing.
func (e *Engine) DrawGlyphs(f glyphrun.FontHandle, glyphs []glyphrun.GlyphID, positions []glyphrun.Point, dst glyphrun.Canvas) error {
	fs, err := e.font(f)
	if err != nil {
		return err
	}
	if len(glyphs) != len(positions) {
		return glyphrun.ErrTypeMismatch
	}
	if dst.Dst == nil {
		return ErrNilCanvas
	}

	var c color.Color = color.Black
	if dst.Color != nil {
		c = dst.Color
	}
	src := image.NewUniform(c)
	origin := dst.Dst.Bounds().Min
	ppem := floatToFixed(fs.size)

	var buf sfnt.Buffer
	drawn := 0
	for i, g := range glyphs {
		ok, err := drawGlyph(fs.source.sfnt, &buf, g, ppem, positions[i], origin, dst, src)
		if err != nil {
			return &GlyphError{Glyph: g, Err: err}
		}
		if ok {
			drawn++
		}
	}
	glyphrun.Logger().Debug("gotext: drew glyphs", "glyphs", len(glyphs), "drawn", drawn)
	return nil
}

// drawGlyph rasterizes one glyph. It reports false for glyphs that cover
// no pixels.
func drawGlyph(f *sfnt.Font, buf *sfnt.Buffer, g glyphrun.GlyphID, ppem fixed.Int26_6,
	pos glyphrun.Point, origin image.Point, dst glyphrun.Canvas, src image.Image) (bool, error) {
	segments, err := f.LoadGlyph(buf, sfnt.GlyphIndex(g), ppem, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrColoredGlyph) {
			return false, nil
		}
		return false, err
	}
	if len(segments) == 0 {
		return false, nil
	}

	b, _, err := f.GlyphBounds(buf, sfnt.GlyphIndex(g), ppem, font.HintingNone)
	if err != nil {
		return false, err
	}
	box := image.Rect(
		int(math.Floor(pos.X+fixedToFloat(b.Min.X))),
		int(math.Floor(pos.Y+fixedToFloat(b.Min.Y))),
		int(math.Ceil(pos.X+fixedToFloat(b.Max.X))),
		int(math.Ceil(pos.Y+fixedToFloat(b.Max.Y))),
	)
	if box.Empty() || !box.Add(origin).Overlaps(dst.Dst.Bounds()) {
		return false, nil
	}

	// Rasterizer coordinates start at the top-left corner of box.
	dx := float32(pos.X) - float32(box.Min.X)
	dy := float32(pos.Y) - float32(box.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	if open {
		z.ClosePath()
	}
	// Coverage goes through a mask so glyphs hanging over the edge of
	// dst are clipped by draw.DrawMask.
	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst.Dst, box.Add(origin), src, image.Point{}, mask, image.Point{}, draw.Over)
	return true, nil
}
