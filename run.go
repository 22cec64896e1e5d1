package glyphrun

import (
	"fmt"
	"iter"
)

// Run is a read-only view of a glyph run owned by an Engine.
//
// Every channel accessor returns exactly GlyphCount elements, index
// aligned with the other channels. When the engine already holds a
// channel contiguously the result borrows that memory; otherwise a fresh
// buffer is computed and handed over. Run never mutates the engine's
// run, so channel accessors may be called from several goroutines.
type Run struct {
	engine Engine
	handle RunHandle
}

// NewRun wraps handle h of engine e. Engines call this when they hand out
// runs; it does not validate h.
func NewRun(e Engine, h RunHandle) *Run {
	return &Run{engine: e, handle: h}
}

// Handle returns the engine handle of the run.
func (r *Run) Handle() RunHandle {
	if r == nil {
		return 0
	}
	return r.handle
}

// Engine returns the engine that owns the run.
func (r *Run) Engine() Engine {
	if r == nil {
		return nil
	}
	return r.engine
}

func (r *Run) check() error {
	if r == nil || r.engine == nil || r.handle == 0 {
		return ErrInvalidHandle
	}
	return nil
}

// GlyphCount returns the number of glyphs in the run.
func (r *Run) GlyphCount() (int, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	return r.engine.GlyphCount(r.handle)
}

// Advances returns the advance of every glyph.
func (r *Run) Advances() (Seq[Size], error) { return channelData[Size](r, Advances, Range{}) }

// Glyphs returns the glyph id of every glyph.
func (r *Run) Glyphs() (Seq[GlyphID], error) { return channelData[GlyphID](r, GlyphIDs, Range{}) }

// Positions returns the origin of every glyph.
func (r *Run) Positions() (Seq[Point], error) { return channelData[Point](r, Positions, Range{}) }

// StringIndices returns the source rune offset of every glyph.
func (r *Run) StringIndices() (Seq[int], error) { return channelData[int](r, StringIndices, Range{}) }

// AdvancesIn returns the advances of the glyphs in rg.
func (r *Run) AdvancesIn(rg Range) (Seq[Size], error) { return channelData[Size](r, Advances, rg) }

// GlyphsIn returns the glyph ids of the glyphs in rg.
func (r *Run) GlyphsIn(rg Range) (Seq[GlyphID], error) { return channelData[GlyphID](r, GlyphIDs, rg) }

// PositionsIn returns the origins of the glyphs in rg.
func (r *Run) PositionsIn(rg Range) (Seq[Point], error) { return channelData[Point](r, Positions, rg) }

// StringIndicesIn returns the source rune offsets of the glyphs in rg.
func (r *Run) StringIndicesIn(rg Range) (Seq[int], error) {
	return channelData[int](r, StringIndices, rg)
}

// channelData reads one channel, borrowing the engine's direct buffer
// when there is one and computing into a fresh buffer otherwise.
func channelData[T any](r *Run, ch Channel, rg Range) (Seq[T], error) {
	if err := r.check(); err != nil {
		return Seq[T]{}, err
	}
	n, err := r.engine.GlyphCount(r.handle)
	if err != nil {
		return Seq[T]{}, &ChannelError{Channel: ch, Op: "count", Err: err}
	}
	span, err := rg.Resolve(n)
	if err != nil {
		return Seq[T]{}, err
	}

	direct, err := r.engine.DirectBuffer(r.handle, ch)
	if err != nil {
		return Seq[T]{}, &ChannelError{Channel: ch, Op: "direct", Err: err}
	}
	if direct != nil {
		buf, err := Convert[T](direct, n)
		if err != nil {
			return Seq[T]{}, &ChannelError{Channel: ch, Op: "direct", Err: err}
		}
		return borrowedSeq(buf[span.Location:span.End():span.End()]), nil
	}

	buf := make([]T, span.Length)
	Logger().Debug("glyphrun: computing channel",
		"channel", ch.String(), "run", uint64(r.handle), "glyphs", span.Length)
	if err := r.engine.ComputeChannel(r.handle, ch, span, buf); err != nil {
		return Seq[T]{}, &ChannelError{Channel: ch, Op: "compute", Err: err}
	}
	return ownedSeq(buf), nil
}

// TypographicBounds measures the glyphs in rg; the zero Range measures
// the whole run.
func (r *Run) TypographicBounds(rg Range) (TypographicBounds, error) {
	if err := r.check(); err != nil {
		return TypographicBounds{}, err
	}
	if !Supports(r.engine, CapTypographicBounds) {
		return TypographicBounds{}, fmt.Errorf("typographic bounds: %w", ErrUnsupported)
	}
	n, err := r.engine.GlyphCount(r.handle)
	if err != nil {
		return TypographicBounds{}, err
	}
	span, err := rg.Resolve(n)
	if err != nil {
		return TypographicBounds{}, err
	}
	return r.engine.TypographicBounds(r.handle, span)
}

// Release returns the run to its engine. Later calls on r fail with
// ErrInvalidHandle.
func (r *Run) Release() error {
	if err := r.check(); err != nil {
		return err
	}
	rel, ok := r.engine.(RunReleaser)
	if !ok {
		return fmt.Errorf("release: %w", ErrUnsupported)
	}
	return rel.Release(r.handle)
}

// GlyphRecord is one glyph with all of its channel values.
type GlyphRecord struct {
	Index       int
	Glyph       GlyphID
	Advance     Size
	Position    Point
	StringIndex int
}

// Records reads all four channels and zips them by index.
func (r *Run) Records() (iter.Seq[GlyphRecord], error) {
	adv, err := r.Advances()
	if err != nil {
		return nil, err
	}
	ids, err := r.Glyphs()
	if err != nil {
		return nil, err
	}
	pos, err := r.Positions()
	if err != nil {
		return nil, err
	}
	idx, err := r.StringIndices()
	if err != nil {
		return nil, err
	}
	return func(yield func(GlyphRecord) bool) {
		for i := range ids.Len() {
			rec := GlyphRecord{
				Index:       i,
				Glyph:       ids.At(i),
				Advance:     adv.At(i),
				Position:    pos.At(i),
				StringIndex: idx.At(i),
			}
			if !yield(rec) {
				return
			}
		}
	}, nil
}
