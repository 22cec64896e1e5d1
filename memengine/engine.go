// Package memengine is a glyphrun.Engine whose runs are plain slices held
// in memory.
//
// It is used to replay recorded runs (see Dump and Load) and to exercise
// both branches of the glyphrun accessors: every channel can be switched
// between a direct buffer and on-demand computation.
package memengine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphrun"
)

// ErrMisaligned is returned by Add when the channels of a run differ in
// length.
var ErrMisaligned = errors.New("memengine: channels have different lengths")

type entry struct {
	data     glyphrun.RunData
	vertical bool
}

// Engine keeps runs in memory. It is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	runs   map[glyphrun.RunHandle]*entry
	next   glyphrun.RunHandle
	direct [len(glyphrun.Channels)]bool
	caps   glyphrun.CapabilitySet

	computeCalls atomic.Int64
}

// New returns an empty engine that exposes every channel as a direct
// buffer.
func New() *Engine {
	e := &Engine{
		runs: make(map[glyphrun.RunHandle]*entry),
		caps: glyphrun.BaseCapabilities.With(glyphrun.CapRelease).Without(glyphrun.CapDrawGlyphs).Without(glyphrun.CapBoundingRects),
	}
	for i := range e.direct {
		e.direct[i] = true
	}
	return e
}

// SetDirect controls whether ch is served from a direct buffer (true) or
// computed into a fresh buffer on every access (false). Unknown channels
// are ignored.
func (e *Engine) SetDirect(ch glyphrun.Channel, direct bool) {
	if int(ch) >= len(e.direct) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.direct[ch] = direct
}

// SetAllDirect applies SetDirect to every channel.
func (e *Engine) SetAllDirect(direct bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.direct {
		e.direct[i] = direct
	}
}

// ComputeCalls returns how many times ComputeChannel has been called.
func (e *Engine) ComputeCalls() int64 {
	return e.computeCalls.Load()
}

// Capabilities implements glyphrun.CapabilityReporter. The engine has no
// fonts, so only run capabilities are reported.
func (e *Engine) Capabilities() glyphrun.CapabilitySet {
	return e.caps
}

// Add registers a copy of d and returns a run for it.
func (e *Engine) Add(d glyphrun.RunData) (*glyphrun.Run, error) {
	if !d.Aligned() {
		return nil, fmt.Errorf("%w: advances=%d glyphs=%d positions=%d indices=%d", ErrMisaligned,
			len(d.Advances), len(d.Glyphs), len(d.Positions), len(d.StringIndices))
	}
	stored := glyphrun.RunData{
		Advances:      cloneOrEmpty(d.Advances),
		Glyphs:        cloneOrEmpty(d.Glyphs),
		Positions:     cloneOrEmpty(d.Positions),
		StringIndices: cloneOrEmpty(d.StringIndices),
		Bounds:        d.Bounds,
	}

	e.mu.Lock()
	e.next++
	h := e.next
	e.runs[h] = &entry{data: stored, vertical: isVertical(stored.Advances)}
	e.mu.Unlock()

	glyphrun.Logger().Debug("memengine: run added", "run", uint64(h), "glyphs", stored.Len())
	return glyphrun.NewRun(e, h), nil
}

// Release implements glyphrun.RunReleaser.
func (e *Engine) Release(h glyphrun.RunHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.runs[h]; !ok {
		return glyphrun.ErrInvalidHandle
	}
	delete(e.runs, h)
	glyphrun.Logger().Debug("memengine: run released", "run", uint64(h))
	return nil
}

// Len returns the number of live runs.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.runs)
}

func (e *Engine) lookup(h glyphrun.RunHandle) (*entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.runs[h]
	if !ok {
		return nil, glyphrun.ErrInvalidHandle
	}
	return ent, nil
}

// GlyphCount implements glyphrun.Engine.
func (e *Engine) GlyphCount(h glyphrun.RunHandle) (int, error) {
	ent, err := e.lookup(h)
	if err != nil {
		return 0, err
	}
	return ent.data.Len(), nil
}

// DirectBuffer implements glyphrun.Engine.
func (e *Engine) DirectBuffer(h glyphrun.RunHandle, ch glyphrun.Channel) (any, error) {
	ent, err := e.lookup(h)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	direct := int(ch) < len(e.direct) && e.direct[ch]
	e.mu.RUnlock()
	if !direct {
		return nil, nil
	}
	switch ch {
	case glyphrun.Advances:
		return ent.data.Advances, nil
	case glyphrun.GlyphIDs:
		return ent.data.Glyphs, nil
	case glyphrun.Positions:
		return ent.data.Positions, nil
	case glyphrun.StringIndices:
		return ent.data.StringIndices, nil
	default:
		return nil, fmt.Errorf("memengine: unknown channel %v", ch)
	}
}

// ComputeChannel implements glyphrun.Engine by copying the requested
// range into dst.
func (e *Engine) ComputeChannel(h glyphrun.RunHandle, ch glyphrun.Channel, r glyphrun.Range, dst any) error {
	ent, err := e.lookup(h)
	if err != nil {
		return err
	}
	e.computeCalls.Add(1)
	if !r.Within(ent.data.Len()) {
		return glyphrun.ErrRangeOutOfBounds
	}
	switch ch {
	case glyphrun.Advances:
		return fill(ent.data.Advances, r, dst)
	case glyphrun.GlyphIDs:
		return fill(ent.data.Glyphs, r, dst)
	case glyphrun.Positions:
		return fill(ent.data.Positions, r, dst)
	case glyphrun.StringIndices:
		return fill(ent.data.StringIndices, r, dst)
	default:
		return fmt.Errorf("memengine: unknown channel %v", ch)
	}
}

// TypographicBounds implements glyphrun.Engine. Width is the sum of the
// advances in r along the line, so vertical runs sum heights; the
// vertical metrics are those recorded for the run.
func (e *Engine) TypographicBounds(h glyphrun.RunHandle, r glyphrun.Range) (glyphrun.TypographicBounds, error) {
	ent, err := e.lookup(h)
	if err != nil {
		return glyphrun.TypographicBounds{}, err
	}
	if !r.Within(ent.data.Len()) {
		return glyphrun.TypographicBounds{}, glyphrun.ErrRangeOutOfBounds
	}
	b := ent.data.Bounds
	b.Width = lineWidth(ent.data.Advances[r.Location:r.End()], ent.vertical)
	return b, nil
}

// isVertical reports whether advances move the pen down instead of
// across: no glyph advances horizontally and at least one vertically.
func isVertical(advances []glyphrun.Size) bool {
	down := false
	for _, a := range advances {
		if a.Width != 0 {
			return false
		}
		if a.Height != 0 {
			down = true
		}
	}
	return down
}

func lineWidth(advances []glyphrun.Size, vertical bool) float64 {
	w := 0.0
	for _, a := range advances {
		if vertical {
			w += a.Height
		} else {
			w += a.Width
		}
	}
	return w
}

func fill[T any](src []T, r glyphrun.Range, dst any) error {
	out, err := glyphrun.Convert[T](dst, r.Length)
	if err != nil {
		return err
	}
	copy(out, src[r.Location:r.End()])
	return nil
}

func cloneOrEmpty[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
