package glyphrun

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Font is a font handle inside a FontEngine.
type Font struct {
	engine FontEngine
	handle FontHandle
}

// NewFont wraps handle h of engine e. It does not validate h.
func NewFont(e FontEngine, h FontHandle) *Font {
	return &Font{engine: e, handle: h}
}

// Handle returns the engine handle of the font.
func (f *Font) Handle() FontHandle {
	if f == nil {
		return 0
	}
	return f.handle
}

// Engine returns the engine that owns the font.
func (f *Font) Engine() FontEngine {
	if f == nil {
		return nil
	}
	return f.engine
}

func (f *Font) check(c Capability) error {
	if f == nil || f.engine == nil || f.handle == 0 {
		return ErrInvalidHandle
	}
	if !Supports(f.engine, c) {
		return ErrUnsupported
	}
	return nil
}

// BoundingRects returns the union of the glyph bounding boxes and the box
// of every glyph, measured with orientation o.
func (f *Font) BoundingRects(glyphs []GlyphID, o Orientation) (Rect, []Rect, error) {
	if err := f.check(CapBoundingRects); err != nil {
		return Rect{}, nil, fmt.Errorf("bounding rects: %w", err)
	}
	overall, rects, err := f.engine.BoundingRects(f.handle, glyphs, o)
	if err != nil {
		return Rect{}, nil, err
	}
	if len(rects) != len(glyphs) {
		return Rect{}, nil, &ConversionError{
			Want: "[]glyphrun.Rect", Got: "[]glyphrun.Rect",
			WantLen: len(glyphs), GotLen: len(rects),
		}
	}
	return overall, rects, nil
}

// Draw renders each glyph at its position into dst.
//
// Engines may change state on dst (such as its colour) and do not
// restore it. The glyphs should come from a layout pass; glyph ids looked
// up one rune at a time carry no shaping.
func (f *Font) Draw(gp []GlyphPosition, dst Canvas) error {
	glyphs := make([]GlyphID, len(gp))
	positions := make([]Point, len(gp))
	for i, p := range gp {
		glyphs[i] = p.Glyph
		positions[i] = p.Position
	}
	return f.DrawGlyphs(glyphs, positions, dst)
}

// DrawGlyphs renders glyphs[i] at positions[i] into dst.
func (f *Font) DrawGlyphs(glyphs []GlyphID, positions []Point, dst Canvas) error {
	if err := f.check(CapDrawGlyphs); err != nil {
		return fmt.Errorf("draw glyphs: %w", err)
	}
	if len(glyphs) != len(positions) {
		return fmt.Errorf("draw glyphs: %d glyphs but %d positions: %w",
			len(glyphs), len(positions), ErrTypeMismatch)
	}
	if dst.Dst == nil {
		return errors.New("glyphrun: draw glyphs: nil destination image")
	}
	return f.engine.DrawGlyphs(f.handle, glyphs, positions, dst)
}

// DefaultCascadeList returns the ordered fallback fonts for f, matched
// against the language preference list langs (BCP 47 tags, most
// preferred first). A nil result with a nil error means the engine has
// no fallback list for f.
func (f *Font) DefaultCascadeList(langs []string) ([]FontDescriptor, error) {
	if err := f.check(CapFallbackList); err != nil {
		return nil, fmt.Errorf("cascade list: %w", err)
	}
	canon, err := CanonicalLanguages(langs)
	if err != nil {
		return nil, err
	}
	raw, err := f.engine.FallbackList(f.handle, canon)
	if err != nil {
		return nil, err
	}
	list, err := ConvertList[FontDescriptor](raw)
	if err != nil {
		return nil, fmt.Errorf("cascade list: %w", err)
	}
	return list, nil
}

// GraphicsFont returns the engine's native font object for f together
// with the descriptor of its attributes.
func (f *Font) GraphicsFont() (any, FontDescriptor, error) {
	if err := f.check(CapNativeFont); err != nil {
		return nil, FontDescriptor{}, fmt.Errorf("graphics font: %w", err)
	}
	return f.engine.NativeFont(f.handle)
}

// SupportedLanguages returns the language tags the font covers.
func (f *Font) SupportedLanguages() ([]string, error) {
	if err := f.check(CapSupportedLanguages); err != nil {
		return nil, fmt.Errorf("supported languages: %w", err)
	}
	raw, err := f.engine.SupportedLanguages(f.handle)
	if err != nil {
		return nil, err
	}
	langs, err := ConvertList[string](raw)
	if err != nil {
		return nil, fmt.Errorf("supported languages: %w", err)
	}
	if langs == nil {
		langs = []string{}
	}
	return langs, nil
}

// CanonicalLanguages parses BCP 47 tags and returns their canonical
// forms in the same order. Empty input yields nil.
func CanonicalLanguages(langs []string) ([]string, error) {
	if len(langs) == 0 {
		return nil, nil
	}
	out := make([]string, len(langs))
	for i, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("glyphrun: language %q: %w", l, err)
		}
		out[i] = tag.String()
	}
	return out, nil
}
