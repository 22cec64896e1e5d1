package glyphrun

import (
	"fmt"
	"image/color"
	"image/draw"
	"math"
)

// GlyphID is the glyph index within a font. Glyph 0 is .notdef.
type GlyphID uint16

// Size is a 2D extent, used for per-glyph advances.
type Size struct {
	Width, Height float64
}

// Point is a 2D position in user space.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle. Engines in this module use image
// space: y grows downward and glyph tops have negative MinY.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Union returns the smallest rectangle containing both r and s.
// Empty rectangles do not contribute.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, s.MinX),
		MinY: math.Min(r.MinY, s.MinY),
		MaxX: math.Max(r.MaxX, s.MaxX),
		MaxY: math.Max(r.MaxY, s.MaxY),
	}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Range selects glyphs [Location, Location+Length) of a run.
// The zero Range selects the whole run.
type Range struct {
	Location int
	Length   int
}

// End returns the exclusive end index.
func (r Range) End() int { return r.Location + r.Length }

// Within reports whether r lies inside a run of n glyphs. It does not
// compute Location+Length, so huge values cannot wrap around.
func (r Range) Within(n int) bool {
	return r.Location >= 0 && r.Length >= 0 && r.Location <= n && r.Length <= n-r.Location
}

// IsZero reports whether r is the whole-run sentinel {0, 0}.
func (r Range) IsZero() bool { return r.Location == 0 && r.Length == 0 }

// Resolve maps r onto a run of n glyphs. The zero Range becomes [0, n).
func (r Range) Resolve(n int) (Range, error) {
	if r.IsZero() {
		return Range{Location: 0, Length: n}, nil
	}
	if !r.Within(n) {
		return Range{}, fmt.Errorf("%w: location %d length %d in run of %d glyphs", ErrRangeOutOfBounds, r.Location, r.Length, n)
	}
	return r, nil
}

// Orientation selects how glyph metrics are measured.
type Orientation uint8

const (
	// OrientationDefault is horizontal.
	OrientationDefault Orientation = iota
	// OrientationHorizontal measures glyphs relative to their baseline origin.
	OrientationHorizontal
	// OrientationVertical measures glyphs relative to their vertical origin
	// (top centre of the glyph's advance box).
	OrientationVertical
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationDefault:
		return "default"
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// TypographicBounds are the line metrics of a glyph range.
type TypographicBounds struct {
	Width   float64
	Ascent  float64
	Descent float64
	Leading float64
}

// Height returns Ascent + Descent + Leading.
func (b TypographicBounds) Height() float64 {
	return b.Ascent + b.Descent + b.Leading
}

// GlyphPosition pairs a glyph with its drawing origin.
type GlyphPosition struct {
	Glyph    GlyphID
	Position Point
}

// Canvas is the drawing target for glyph rendering. Glyphs are filled
// with Color into Dst.
type Canvas struct {
	Dst   draw.Image
	Color color.Color
}

// FontDescriptor bundles the font-selection attributes an engine reports.
type FontDescriptor struct {
	Family         string
	Subfamily      string
	FullName       string
	PostScriptName string
	Languages      []string
}

// String returns the full name, or the family when no full name exists.
func (d FontDescriptor) String() string {
	if d.FullName != "" {
		return d.FullName
	}
	return d.Family
}
