package memengine

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/glyphrun"
)

// dumpVersion is bumped whenever the record layout changes.
const dumpVersion = 1

type dumpFile struct {
	Version int          `msgpack:"version"`
	Source  string       `msgpack:"source,omitempty"`
	Runs    []dumpRecord `msgpack:"runs"`
}

type dumpRecord struct {
	Glyphs        []uint16     `msgpack:"glyphs"`
	Advances      [][2]float64 `msgpack:"advances"`
	Positions     [][2]float64 `msgpack:"positions"`
	StringIndices []int        `msgpack:"indices"`
	Ascent        float64      `msgpack:"ascent"`
	Descent       float64      `msgpack:"descent"`
	Leading       float64      `msgpack:"leading"`
}

// Dump writes runs to w in msgpack form. source is free text recorded
// with the runs, typically the text that was shaped.
func Dump(w io.Writer, source string, runs []glyphrun.RunData) error {
	f := dumpFile{Version: dumpVersion, Source: source, Runs: make([]dumpRecord, len(runs))}
	for i, d := range runs {
		if !d.Aligned() {
			return fmt.Errorf("memengine: dump run %d: %w", i, ErrMisaligned)
		}
		rec := dumpRecord{
			Glyphs:        make([]uint16, d.Len()),
			Advances:      make([][2]float64, d.Len()),
			Positions:     make([][2]float64, d.Len()),
			StringIndices: append([]int(nil), d.StringIndices...),
			Ascent:        d.Bounds.Ascent,
			Descent:       d.Bounds.Descent,
			Leading:       d.Bounds.Leading,
		}
		for j := range d.Len() {
			rec.Glyphs[j] = uint16(d.Glyphs[j])
			rec.Advances[j] = [2]float64{d.Advances[j].Width, d.Advances[j].Height}
			rec.Positions[j] = [2]float64{d.Positions[j].X, d.Positions[j].Y}
		}
		f.Runs[i] = rec
	}

	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("memengine: encode dump: %w", err)
	}
	return nil
}

// Load reads runs written by Dump and returns them with the recorded
// source text.
func Load(r io.Reader) (string, []glyphrun.RunData, error) {
	var f dumpFile
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return "", nil, fmt.Errorf("memengine: decode dump: %w", err)
	}
	if f.Version != dumpVersion {
		return "", nil, fmt.Errorf("memengine: dump version %d, want %d", f.Version, dumpVersion)
	}

	runs := make([]glyphrun.RunData, len(f.Runs))
	for i, rec := range f.Runs {
		n := len(rec.Glyphs)
		if len(rec.Advances) != n || len(rec.Positions) != n || len(rec.StringIndices) != n {
			return "", nil, fmt.Errorf("memengine: dump run %d: %w", i, ErrMisaligned)
		}
		d := glyphrun.RunData{
			Advances:      make([]glyphrun.Size, n),
			Glyphs:        make([]glyphrun.GlyphID, n),
			Positions:     make([]glyphrun.Point, n),
			StringIndices: append([]int{}, rec.StringIndices...),
			Bounds: glyphrun.TypographicBounds{
				Ascent:  rec.Ascent,
				Descent: rec.Descent,
				Leading: rec.Leading,
			},
		}
		for j := range n {
			d.Glyphs[j] = glyphrun.GlyphID(rec.Glyphs[j])
			d.Advances[j] = glyphrun.Size{Width: rec.Advances[j][0], Height: rec.Advances[j][1]}
			d.Positions[j] = glyphrun.Point{X: rec.Positions[j][0], Y: rec.Positions[j][1]}
		}
		d.Bounds.Width = lineWidth(d.Advances, isVertical(d.Advances))
		runs[i] = d
	}
	return f.Source, runs, nil
}

// LoadInto reads a dump and registers every run with e.
func LoadInto(e *Engine, r io.Reader) (string, []*glyphrun.Run, error) {
	source, data, err := Load(r)
	if err != nil {
		return "", nil, err
	}
	runs := make([]*glyphrun.Run, len(data))
	for i, d := range data {
		run, err := e.Add(d)
		if err != nil {
			return "", nil, err
		}
		runs[i] = run
	}
	return source, runs, nil
}
