package glyphrun

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunData is an owned copy of every channel of a run plus its bounds.
type RunData struct {
	Advances      []Size
	Glyphs        []GlyphID
	Positions     []Point
	StringIndices []int
	Bounds        TypographicBounds
}

// Len returns the number of glyphs.
func (d RunData) Len() int { return len(d.Glyphs) }

// Aligned reports whether all four channels have the same length.
func (d RunData) Aligned() bool {
	n := len(d.Glyphs)
	return len(d.Advances) == n && len(d.Positions) == n && len(d.StringIndices) == n
}

// ReadAll reads the four channels of r concurrently and copies them into
// a RunData that outlives the run. Bounds are filled when the engine
// supports them.
func ReadAll(ctx context.Context, r *Run) (RunData, error) {
	if err := r.check(); err != nil {
		return RunData{}, err
	}

	var data RunData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		s, err := r.Advances()
		data.Advances = s.Clone()
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		s, err := r.Glyphs()
		data.Glyphs = s.Clone()
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		s, err := r.Positions()
		data.Positions = s.Clone()
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		s, err := r.StringIndices()
		data.StringIndices = s.Clone()
		return err
	})
	if Supports(r.engine, CapTypographicBounds) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := r.TypographicBounds(Range{})
			data.Bounds = b
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return RunData{}, err
	}
	return data, nil
}
