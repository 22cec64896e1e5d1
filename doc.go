// Package glyphrun exposes the per-glyph data of laid-out text runs as
// read-only Go sequences.
//
// # Overview
//
// A text-layout engine turns a string into runs: maximal sequences of
// glyphs that share one font and one set of rendering attributes. Each
// run carries four index-aligned channels:
//
//   - Advances: how far the pen moves after each glyph
//   - Glyphs: the glyph id of each glyph
//   - Positions: the origin of each glyph relative to the line
//   - StringIndices: the rune offset each glyph was shaped from
//
// Engines either keep a channel in a contiguous buffer or compute it on
// request. Run hides the difference: when a buffer exists the returned
// Seq borrows it, otherwise a fresh buffer is computed and owned by the
// caller.
//
// # Quick Start
//
//	src, err := gotext.NewFontSource(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng := gotext.NewEngine()
//	font, err := eng.NewFont(src, 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runs, err := eng.Shape("Hello", font)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, run := range runs {
//	    recs, err := run.Records()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for rec := range recs {
//	        fmt.Println(rec.Glyph, rec.Position)
//	    }
//	}
//
// # Engines
//
// The Engine and FontEngine interfaces describe what an engine must do.
// Two engines ship with this module:
//   - gotext: shaping with go-text/typesetting, metrics and rendering
//     with golang.org/x/image
//   - memengine: runs held in memory, loadable from msgpack dumps
//
// Optional operations are gated by capabilities; see Supports.
package glyphrun
