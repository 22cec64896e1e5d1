package glyphrun

// RunHandle identifies a run inside the engine that produced it.
// The zero handle is never valid.
type RunHandle uint64

// FontHandle identifies a font inside the engine that produced it.
// The zero handle is never valid.
type FontHandle uint64

// Engine is the text-layout engine that owns runs.
//
// Engines report ErrInvalidHandle (possibly wrapped) for handles they do
// not know or have released.
type Engine interface {
	// GlyphCount returns the fixed number of glyphs in the run.
	GlyphCount(h RunHandle) (int, error)

	// DirectBuffer returns the engine's own contiguous buffer for ch, or
	// an untyped nil when the channel has to be computed. A non-nil
	// result must be a []Size, []GlyphID, []Point or []int matching ch,
	// holding the whole run.
	DirectBuffer(h RunHandle, ch Channel) (any, error)

	// ComputeChannel writes the values of ch for glyphs r into dst, a
	// slice of r.Length elements of the channel's element type. It must
	// not write outside dst.
	ComputeChannel(h RunHandle, ch Channel, r Range, dst any) error

	// TypographicBounds measures the glyphs in r.
	TypographicBounds(h RunHandle, r Range) (TypographicBounds, error)
}

// RunReleaser is implemented by engines whose runs can be released
// explicitly. A released handle fails every later call with
// ErrInvalidHandle.
type RunReleaser interface {
	Release(h RunHandle) error
}

// FontEngine is the font side of a text-layout engine.
type FontEngine interface {
	// BoundingRects returns the union and the per-glyph bounding boxes
	// of glyphs laid out with orientation o.
	BoundingRects(f FontHandle, glyphs []GlyphID, o Orientation) (Rect, []Rect, error)

	// DrawGlyphs renders glyphs[i] at positions[i] into dst. Both slices
	// have the same length.
	DrawGlyphs(f FontHandle, glyphs []GlyphID, positions []Point, dst Canvas) error

	// FallbackList returns the ordered fallback fonts for f given
	// canonical BCP 47 language preferences, as an opaque list of
	// FontDescriptor values, or nil when the engine has none.
	FallbackList(f FontHandle, langs []string) (any, error)

	// NativeFont returns the engine's own font object and its descriptor.
	NativeFont(f FontHandle) (native any, desc FontDescriptor, err error)

	// SupportedLanguages returns an opaque list of language tags.
	SupportedLanguages(f FontHandle) (any, error)
}
