package gotext

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/glyphrun"
)

// fontState is a registered font: a source at a size.
type fontState struct {
	source *FontSource
	size   float64
}

// fontKey identifies the font a fallback run was shaped with.
type fontKey struct {
	source *FontSource
	size   float64
}

// runState is a registered run. Channel values are derived from glyphs;
// cached holds the direct buffers for the channels the engine keeps.
type runState struct {
	font     *fontState
	fontID   glyphrun.FontHandle
	vertical bool
	origin   glyphrun.Point
	glyphs   []rawGlyph
	cached   [len(glyphrun.Channels)]any
}

// Engine shapes text with go-text/typesetting and serves the resulting
// runs to glyphrun. It implements glyphrun.Engine, glyphrun.FontEngine,
// glyphrun.RunReleaser and glyphrun.CapabilityReporter.
//
// Engine is safe for concurrent use.
type Engine struct {
	// shaperPool pools HarfbuzzShaper instances; a HarfbuzzShaper keeps
	// an internal buffer and must not be shared between goroutines.
	shaperPool sync.Pool

	mu       sync.RWMutex
	nextRun  glyphrun.RunHandle
	nextFont glyphrun.FontHandle
	runs     map[glyphrun.RunHandle]*runState
	fonts    map[glyphrun.FontHandle]*fontState
	implicit map[fontKey]glyphrun.FontHandle

	config engineConfig
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Engine{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		runs:     make(map[glyphrun.RunHandle]*runState),
		fonts:    make(map[glyphrun.FontHandle]*fontState),
		implicit: make(map[fontKey]glyphrun.FontHandle),
		config:   config,
	}
}

// Capabilities implements glyphrun.CapabilityReporter.
func (e *Engine) Capabilities() glyphrun.CapabilitySet {
	return glyphrun.AllCapabilities
}

// NewFont registers src at size (in pixels per em) and returns its handle.
func (e *Engine) NewFont(src *FontSource, size float64) (*glyphrun.Font, error) {
	if src == nil {
		return nil, glyphrun.ErrInvalidHandle
	}
	if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	if err := src.live(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	h := e.addFontLocked(&fontState{source: src, size: size})
	e.mu.Unlock()
	return glyphrun.NewFont(e, h), nil
}

func (e *Engine) addFontLocked(fs *fontState) glyphrun.FontHandle {
	e.nextFont++
	e.fonts[e.nextFont] = fs
	return e.nextFont
}

// implicitFont returns the handle fallback runs of src at size use,
// registering it on first use.
func (e *Engine) implicitFont(src *FontSource, size float64) glyphrun.FontHandle {
	key := fontKey{source: src, size: size}
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.implicit[key]; ok {
		return h
	}
	h := e.addFontLocked(&fontState{source: src, size: size})
	e.implicit[key] = h
	return h
}

// FontOf returns the font run was shaped with. For runs taken from a
// fallback source this is a font the engine registered itself.
func (e *Engine) FontOf(run *glyphrun.Run) (*glyphrun.Font, error) {
	if run == nil || run.Engine() != glyphrun.Engine(e) {
		return nil, glyphrun.ErrInvalidHandle
	}
	st, err := e.run(run.Handle())
	if err != nil {
		return nil, err
	}
	if _, err := e.font(st.fontID); err != nil {
		return nil, err
	}
	return glyphrun.NewFont(e, st.fontID), nil
}

// ReleaseFont unregisters f. Runs already shaped with f stay valid.
func (e *Engine) ReleaseFont(f *glyphrun.Font) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := f.Handle()
	fs, ok := e.fonts[h]
	if !ok || f.Engine() != glyphrun.FontEngine(e) {
		return glyphrun.ErrInvalidHandle
	}
	delete(e.fonts, h)
	key := fontKey{source: fs.source, size: fs.size}
	if e.implicit[key] == h {
		delete(e.implicit, key)
	}
	return nil
}

// Shape lays text out as a single line with font f and returns its runs
// in display order. Text is split into runs wherever the bidi direction,
// the script or the font changes; characters f does not cover are taken
// from the fallback sources.
//
// Positions are relative to the line origin: x grows along the line and
// y grows downward from the baseline. String indices are rune offsets
// into text.
func (e *Engine) Shape(text string, f *glyphrun.Font) ([]*glyphrun.Run, error) {
	fs, err := e.fontFor(f)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	sources := append([]*FontSource{fs.source}, e.config.fallbacks...)
	items := itemize(runes, e.config.direction, sources)
	if n := uncovered(runes, sources); n > 0 {
		glyphrun.Logger().Warn("gotext: no font covers some characters",
			"font", fs.source.Name(), "fallbacks", len(e.config.fallbacks), "missing", n)
	}

	states := make([]*runState, 0, len(items))
	var pen glyphrun.Point
	for _, idx := range visualOrder(items, e.config.direction) {
		it := items[idx]
		runFont := fs
		fontID := f.Handle()
		if it.source != fs.source {
			if err := it.source.live(); err != nil {
				return nil, err
			}
			runFont = &fontState{source: it.source, size: fs.size}
			fontID = e.implicitFont(it.source, fs.size)
		}
		st := &runState{
			font:     runFont,
			fontID:   fontID,
			vertical: e.config.direction.IsVertical(),
			origin:   pen,
			glyphs:   e.shapeItem(runes, it, fs.size),
		}
		if err := e.fillCache(st); err != nil {
			return nil, err
		}
		for i := range st.glyphs {
			if st.vertical {
				pen.Y += st.advance(i)
			} else {
				pen.X += st.advance(i)
			}
		}
		states = append(states, st)
	}

	runs := make([]*glyphrun.Run, len(states))
	total := 0
	e.mu.Lock()
	for i, st := range states {
		e.nextRun++
		e.runs[e.nextRun] = st
		runs[i] = glyphrun.NewRun(e, e.nextRun)
		total += len(st.glyphs)
	}
	e.mu.Unlock()

	glyphrun.Logger().Debug("gotext: shaped text",
		"runes", len(runes), "runs", len(runs), "glyphs", total, "font", fs.source.Name())
	return runs, nil
}

// uncovered counts the visible runes no source maps.
func uncovered(runes []rune, sources []*FontSource) int {
	n := 0
	for _, r := range runes {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Mn, r) {
			continue
		}
		if !slices.ContainsFunc(sources, func(s *FontSource) bool { return s.Covers(r) }) {
			n++
		}
	}
	return n
}

// fillCache computes the direct buffers of the channels the engine keeps.
func (e *Engine) fillCache(st *runState) error {
	n := len(st.glyphs)
	whole := glyphrun.Range{Location: 0, Length: n}
	for _, ch := range glyphrun.Channels {
		if !e.config.cached[ch] {
			continue
		}
		buf := newChannelBuffer(ch, n)
		if err := st.compute(ch, whole, buf); err != nil {
			return err
		}
		st.cached[ch] = buf
	}
	return nil
}

// Release implements glyphrun.RunReleaser.
func (e *Engine) Release(h glyphrun.RunHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.runs[h]; !ok {
		return glyphrun.ErrInvalidHandle
	}
	delete(e.runs, h)
	glyphrun.Logger().Debug("gotext: run released", "run", uint64(h))
	return nil
}

func (e *Engine) run(h glyphrun.RunHandle) (*runState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.runs[h]
	if !ok {
		return nil, glyphrun.ErrInvalidHandle
	}
	return st, nil
}

func (e *Engine) font(h glyphrun.FontHandle) (*fontState, error) {
	e.mu.RLock()
	fs, ok := e.fonts[h]
	e.mu.RUnlock()
	if !ok {
		return nil, glyphrun.ErrInvalidHandle
	}
	if err := fs.source.live(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (e *Engine) fontFor(f *glyphrun.Font) (*fontState, error) {
	if f == nil || f.Engine() != glyphrun.FontEngine(e) {
		return nil, glyphrun.ErrInvalidHandle
	}
	return e.font(f.Handle())
}

// GlyphCount implements glyphrun.Engine.
func (e *Engine) GlyphCount(h glyphrun.RunHandle) (int, error) {
	st, err := e.run(h)
	if err != nil {
		return 0, err
	}
	return len(st.glyphs), nil
}

// DirectBuffer implements glyphrun.Engine.
func (e *Engine) DirectBuffer(h glyphrun.RunHandle, ch glyphrun.Channel) (any, error) {
	st, err := e.run(h)
	if err != nil {
		return nil, err
	}
	if int(ch) >= len(st.cached) {
		return nil, fmt.Errorf("gotext: unknown channel %v", ch)
	}
	return st.cached[ch], nil
}

// ComputeChannel implements glyphrun.Engine.
func (e *Engine) ComputeChannel(h glyphrun.RunHandle, ch glyphrun.Channel, r glyphrun.Range, dst any) error {
	st, err := e.run(h)
	if err != nil {
		return err
	}
	if !r.Within(len(st.glyphs)) {
		return glyphrun.ErrRangeOutOfBounds
	}
	return st.compute(ch, r, dst)
}

func newChannelBuffer(ch glyphrun.Channel, n int) any {
	switch ch {
	case glyphrun.Advances:
		return make([]glyphrun.Size, n)
	case glyphrun.GlyphIDs:
		return make([]glyphrun.GlyphID, n)
	case glyphrun.Positions:
		return make([]glyphrun.Point, n)
	default:
		return make([]int, n)
	}
}

// advance returns the advance of glyph i along the line.
func (st *runState) advance(i int) float64 {
	return math.Abs(fixedToFloat(st.glyphs[i].advance))
}

// compute writes channel ch of glyphs r into dst.
func (st *runState) compute(ch glyphrun.Channel, r glyphrun.Range, dst any) error {
	switch ch {
	case glyphrun.Advances:
		out, err := glyphrun.Convert[glyphrun.Size](dst, r.Length)
		if err != nil {
			return err
		}
		for i := range out {
			a := st.advance(r.Location + i)
			if st.vertical {
				out[i] = glyphrun.Size{Height: a}
			} else {
				out[i] = glyphrun.Size{Width: a}
			}
		}
	case glyphrun.GlyphIDs:
		out, err := glyphrun.Convert[glyphrun.GlyphID](dst, r.Length)
		if err != nil {
			return err
		}
		for i := range out {
			id, err := glyphID(st.glyphs[r.Location+i].id)
			if err != nil {
				return fmt.Errorf("gotext: glyph %d: %w", r.Location+i, err)
			}
			out[i] = id
		}
	case glyphrun.Positions:
		out, err := glyphrun.Convert[glyphrun.Point](dst, r.Length)
		if err != nil {
			return err
		}
		pen := st.origin
		for i := range r.End() {
			g := st.glyphs[i]
			if i >= r.Location {
				out[i-r.Location] = glyphrun.Point{
					X: pen.X + fixedToFloat(g.xOffset),
					Y: pen.Y - fixedToFloat(g.yOffset),
				}
			}
			if st.vertical {
				pen.Y += st.advance(i)
			} else {
				pen.X += st.advance(i)
			}
		}
	case glyphrun.StringIndices:
		out, err := glyphrun.Convert[int](dst, r.Length)
		if err != nil {
			return err
		}
		for i := range out {
			out[i] = st.glyphs[r.Location+i].cluster
		}
	default:
		return fmt.Errorf("gotext: unknown channel %v", ch)
	}
	return nil
}
