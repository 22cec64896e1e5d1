package gotext

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphrun"
)

// Sentinel errors for the gotext package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("gotext: empty font data")

	// ErrSourceClosed is returned when a FontSource is used after Close.
	ErrSourceClosed = errors.New("gotext: font source closed")

	// ErrInvalidSize is returned for non-positive or non-finite font sizes.
	ErrInvalidSize = errors.New("gotext: invalid font size")

	// ErrNilCanvas is returned when DrawGlyphs is given no destination image.
	ErrNilCanvas = errors.New("gotext: nil destination image")
)

// GlyphError is returned when a glyph id has no data in the font.
type GlyphError struct {
	Glyph glyphrun.GlyphID
	Err   error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("gotext: glyph %d: %v", e.Glyph, e.Err)
}

func (e *GlyphError) Unwrap() error { return e.Err }
