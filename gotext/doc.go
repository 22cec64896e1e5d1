// Package gotext is a glyphrun engine built on go-text/typesetting and
// golang.org/x/image.
//
// Text is shaped with the HarfBuzz port of go-text. Font names, metrics
// and glyph outlines are read with golang.org/x/image/font/sfnt, and
// glyphs are rasterized with golang.org/x/image/vector.
//
// # Runs
//
// Shape splits a line into runs at every change of bidi level, script
// or font, and returns them in display order. Characters the primary
// font does not map are taken from the first fallback source that does
// (see WithFallbackSources).
//
// # Channels
//
// By default the engine keeps glyph ids and advances as direct buffers
// and computes positions and string indices on request.
// WithCachedChannels changes the split; glyphrun returns the same values
// either way.
//
// # Example
//
//	src, _ := gotext.NewFontSource(goregular.TTF)
//	eng := gotext.NewEngine(gotext.WithCachedChannels(glyphrun.GlyphIDs))
//	font, _ := eng.NewFont(src, 24)
//	runs, _ := eng.Shape("Hello", font)
//	glyphs, _ := runs[0].Glyphs()
package gotext
