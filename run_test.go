package glyphrun_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/glyphrun"
	"github.com/gogpu/glyphrun/memengine"
)

// sampleRun builds n glyphs with distinct values in every channel so that
// misalignment between channels shows up in comparisons.
func sampleRun(n int) glyphrun.RunData {
	d := glyphrun.RunData{
		Advances:      make([]glyphrun.Size, n),
		Glyphs:        make([]glyphrun.GlyphID, n),
		Positions:     make([]glyphrun.Point, n),
		StringIndices: make([]int, n),
		Bounds:        glyphrun.TypographicBounds{Ascent: 12, Descent: 3, Leading: 1},
	}
	x := 0.0
	for i := range n {
		adv := float64(8 + i%3)
		d.Advances[i] = glyphrun.Size{Width: adv}
		d.Glyphs[i] = glyphrun.GlyphID(100 + i)
		d.Positions[i] = glyphrun.Point{X: x}
		d.StringIndices[i] = i
		x += adv
	}
	return d
}

func addRun(t *testing.T, e *memengine.Engine, d glyphrun.RunData) *glyphrun.Run {
	t.Helper()
	run, err := e.Add(d)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return run
}

func TestRun_ThreeGlyphScenario(t *testing.T) {
	for _, direct := range []bool{true, false} {
		name := "computed"
		if direct {
			name = "direct"
		}
		t.Run(name, func(t *testing.T) {
			e := memengine.New()
			e.SetAllDirect(direct)
			run := addRun(t, e, glyphrun.RunData{
				Advances:      []glyphrun.Size{{Width: 10}, {Width: 12}, {Width: 9}},
				Glyphs:        []glyphrun.GlyphID{5, 12, 7},
				Positions:     []glyphrun.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 22, Y: 0}},
				StringIndices: []int{0, 1, 2},
			})

			ids, err := run.Glyphs()
			if err != nil {
				t.Fatalf("Glyphs() error = %v", err)
			}
			pos, err := run.Positions()
			if err != nil {
				t.Fatalf("Positions() error = %v", err)
			}

			want := []struct {
				gid glyphrun.GlyphID
				pos glyphrun.Point
			}{
				{5, glyphrun.Point{X: 0, Y: 0}},
				{12, glyphrun.Point{X: 10, Y: 0}},
				{7, glyphrun.Point{X: 22, Y: 0}},
			}
			if ids.Len() != 3 || pos.Len() != 3 {
				t.Fatalf("lengths = %d, %d; want 3, 3", ids.Len(), pos.Len())
			}
			for i, w := range want {
				if ids.At(i) != w.gid || pos.At(i) != w.pos {
					t.Errorf("glyph %d = (%d, %+v), want (%d, %+v)", i, ids.At(i), pos.At(i), w.gid, w.pos)
				}
			}
			if ids.IsBorrowed() != direct {
				t.Errorf("IsBorrowed() = %v, want %v", ids.IsBorrowed(), direct)
			}
		})
	}
}

func TestRun_ChannelLengths(t *testing.T) {
	for _, n := range []int{0, 1, 3, 17, 256} {
		for _, direct := range []bool{true, false} {
			e := memengine.New()
			e.SetAllDirect(direct)
			run := addRun(t, e, sampleRun(n))

			adv, err := run.Advances()
			if err != nil {
				t.Fatalf("n=%d direct=%v: Advances() error = %v", n, direct, err)
			}
			ids, err := run.Glyphs()
			if err != nil {
				t.Fatalf("n=%d direct=%v: Glyphs() error = %v", n, direct, err)
			}
			pos, err := run.Positions()
			if err != nil {
				t.Fatalf("n=%d direct=%v: Positions() error = %v", n, direct, err)
			}
			idx, err := run.StringIndices()
			if err != nil {
				t.Fatalf("n=%d direct=%v: StringIndices() error = %v", n, direct, err)
			}
			for name, l := range map[string]int{
				"advances": adv.Len(), "glyphs": ids.Len(),
				"positions": pos.Len(), "indices": idx.Len(),
			} {
				if l != n {
					t.Errorf("n=%d direct=%v: %s has %d elements", n, direct, name, l)
				}
			}
		}
	}
}

func TestRun_EmptyRun(t *testing.T) {
	t.Run("direct makes no compute call", func(t *testing.T) {
		e := memengine.New()
		run := addRun(t, e, sampleRun(0))
		for _, read := range channelReaders {
			n, err := read(run)
			if err != nil || n != 0 {
				t.Errorf("read = %d, %v; want 0, nil", n, err)
			}
		}
		if e.ComputeCalls() != 0 {
			t.Errorf("ComputeCalls() = %d, want 0", e.ComputeCalls())
		}
	})

	t.Run("computed gets zero-length buffer", func(t *testing.T) {
		e := memengine.New()
		e.SetAllDirect(false)
		run := addRun(t, e, sampleRun(0))
		for _, read := range channelReaders {
			n, err := read(run)
			if err != nil || n != 0 {
				t.Errorf("read = %d, %v; want 0, nil", n, err)
			}
		}
		if e.ComputeCalls() != int64(len(channelReaders)) {
			t.Errorf("ComputeCalls() = %d, want %d", e.ComputeCalls(), len(channelReaders))
		}
	})
}

var channelReaders = []func(*glyphrun.Run) (int, error){
	func(r *glyphrun.Run) (int, error) { s, err := r.Advances(); return s.Len(), err },
	func(r *glyphrun.Run) (int, error) { s, err := r.Glyphs(); return s.Len(), err },
	func(r *glyphrun.Run) (int, error) { s, err := r.Positions(); return s.Len(), err },
	func(r *glyphrun.Run) (int, error) { s, err := r.StringIndices(); return s.Len(), err },
}

func TestRun_DirectAndComputedAgree(t *testing.T) {
	data := sampleRun(40)

	direct := memengine.New()
	fast := addRun(t, direct, data)

	computed := memengine.New()
	computed.SetAllDirect(false)
	slow := addRun(t, computed, data)

	fastAdv, _ := fast.Advances()
	slowAdv, _ := slow.Advances()
	if !glyphrun.SeqEqual(fastAdv, slowAdv) {
		t.Error("advances differ between direct and computed paths")
	}
	fastIDs, _ := fast.Glyphs()
	slowIDs, _ := slow.Glyphs()
	if !glyphrun.SeqEqual(fastIDs, slowIDs) {
		t.Error("glyphs differ between direct and computed paths")
	}
	fastPos, _ := fast.Positions()
	slowPos, _ := slow.Positions()
	if !glyphrun.SeqEqual(fastPos, slowPos) {
		t.Error("positions differ between direct and computed paths")
	}
	fastIdx, _ := fast.StringIndices()
	slowIdx, _ := slow.StringIndices()
	if !glyphrun.SeqEqual(fastIdx, slowIdx) {
		t.Error("string indices differ between direct and computed paths")
	}

	if !fastIDs.IsBorrowed() || slowIDs.IsBorrowed() {
		t.Errorf("ownership = %v/%v, want borrowed/owned", fastIDs.Ownership(), slowIDs.Ownership())
	}
	if direct.ComputeCalls() != 0 {
		t.Errorf("direct engine computed %d times", direct.ComputeCalls())
	}
	if computed.ComputeCalls() != 4 {
		t.Errorf("computing engine computed %d times, want 4", computed.ComputeCalls())
	}
}

func TestRun_MixedChannels(t *testing.T) {
	e := memengine.New()
	e.SetDirect(glyphrun.Positions, false)
	run := addRun(t, e, sampleRun(5))

	ids, _ := run.Glyphs()
	pos, _ := run.Positions()
	if !ids.IsBorrowed() {
		t.Error("glyphs should be borrowed")
	}
	if pos.IsBorrowed() {
		t.Error("positions should be owned")
	}
	if e.ComputeCalls() != 1 {
		t.Errorf("ComputeCalls() = %d, want 1", e.ComputeCalls())
	}
}

func TestRun_Idempotent(t *testing.T) {
	for _, direct := range []bool{true, false} {
		e := memengine.New()
		e.SetAllDirect(direct)
		run := addRun(t, e, sampleRun(9))

		first, err := run.Advances()
		if err != nil {
			t.Fatal(err)
		}
		second, err := run.Advances()
		if err != nil {
			t.Fatal(err)
		}
		if !glyphrun.SeqEqual(first, second) {
			t.Errorf("direct=%v: repeated Advances() differ", direct)
		}
	}
}

func TestRun_IndexAlignment(t *testing.T) {
	data := sampleRun(12)
	e := memengine.New()
	e.SetDirect(glyphrun.Advances, false)
	e.SetDirect(glyphrun.StringIndices, false)
	run := addRun(t, e, data)

	recs, err := run.Records()
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	count := 0
	for rec := range recs {
		i := rec.Index
		if rec.Glyph != data.Glyphs[i] || rec.Advance != data.Advances[i] ||
			rec.Position != data.Positions[i] || rec.StringIndex != data.StringIndices[i] {
			t.Errorf("record %d = %+v, does not match glyph %d of the input", i, rec, i)
		}
		count++
	}
	if count != 12 {
		t.Errorf("Records() yielded %d records, want 12", count)
	}
}

func TestRun_SubRange(t *testing.T) {
	data := sampleRun(10)
	for _, direct := range []bool{true, false} {
		e := memengine.New()
		e.SetAllDirect(direct)
		run := addRun(t, e, data)

		ids, err := run.GlyphsIn(glyphrun.Range{Location: 2, Length: 3})
		if err != nil {
			t.Fatalf("GlyphsIn() error = %v", err)
		}
		if got := slices.Collect(ids.Values()); !slices.Equal(got, data.Glyphs[2:5]) {
			t.Errorf("direct=%v: GlyphsIn = %v, want %v", direct, got, data.Glyphs[2:5])
		}
		adv, err := run.AdvancesIn(glyphrun.Range{Location: 9, Length: 1})
		if err != nil || adv.Len() != 1 || adv.At(0) != data.Advances[9] {
			t.Errorf("direct=%v: AdvancesIn last = %v, %v", direct, adv.Clone(), err)
		}
		pos, err := run.PositionsIn(glyphrun.Range{Location: 0, Length: 2})
		if err != nil || pos.Len() != 2 {
			t.Errorf("direct=%v: PositionsIn = %v, %v", direct, pos.Clone(), err)
		}
		idx, err := run.StringIndicesIn(glyphrun.Range{Location: 4, Length: 4})
		if err != nil || idx.At(0) != 4 {
			t.Errorf("direct=%v: StringIndicesIn = %v, %v", direct, idx.Clone(), err)
		}

		_, err = run.GlyphsIn(glyphrun.Range{Location: 8, Length: 5})
		if !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
			t.Errorf("direct=%v: out-of-range error = %v, want ErrRangeOutOfBounds", direct, err)
		}
		_, err = run.GlyphsIn(glyphrun.Range{Location: math.MaxInt, Length: 1})
		if !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
			t.Errorf("direct=%v: wrapping range error = %v, want ErrRangeOutOfBounds", direct, err)
		}
		_, err = run.TypographicBounds(glyphrun.Range{Location: 1, Length: math.MaxInt})
		if !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
			t.Errorf("direct=%v: wrapping bounds range error = %v, want ErrRangeOutOfBounds", direct, err)
		}
	}
}

func TestRun_Released(t *testing.T) {
	e := memengine.New()
	run := addRun(t, e, sampleRun(3))
	if err := run.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if _, err := run.Glyphs(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("Glyphs() after release error = %v, want ErrInvalidHandle", err)
	}
	if _, err := run.GlyphCount(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("GlyphCount() after release error = %v, want ErrInvalidHandle", err)
	}
	if _, err := run.TypographicBounds(glyphrun.Range{}); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("TypographicBounds() after release error = %v, want ErrInvalidHandle", err)
	}
	if err := run.Release(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("second Release() error = %v, want ErrInvalidHandle", err)
	}
}

func TestRun_NilAndZeroHandles(t *testing.T) {
	var nilRun *glyphrun.Run
	if _, err := nilRun.Advances(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("nil run Advances() error = %v", err)
	}
	zero := glyphrun.NewRun(memengine.New(), 0)
	if _, err := zero.Positions(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("zero handle Positions() error = %v", err)
	}
	noEngine := glyphrun.NewRun(nil, 1)
	if _, err := noEngine.StringIndices(); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("nil engine StringIndices() error = %v", err)
	}
}

func TestRun_TypographicBounds(t *testing.T) {
	e := memengine.New()
	run := addRun(t, e, glyphrun.RunData{
		Advances:      []glyphrun.Size{{Width: 10}, {Width: 12}, {Width: 9}},
		Glyphs:        []glyphrun.GlyphID{5, 12, 7},
		Positions:     []glyphrun.Point{{X: 0}, {X: 10}, {X: 22}},
		StringIndices: []int{0, 1, 2},
		Bounds:        glyphrun.TypographicBounds{Ascent: 12, Descent: 3, Leading: 1},
	})

	b, err := run.TypographicBounds(glyphrun.Range{})
	if err != nil {
		t.Fatalf("TypographicBounds() error = %v", err)
	}
	want := glyphrun.TypographicBounds{Width: 31, Ascent: 12, Descent: 3, Leading: 1}
	if b != want {
		t.Errorf("TypographicBounds() = %+v, want %+v", b, want)
	}

	b, err = run.TypographicBounds(glyphrun.Range{Location: 1, Length: 1})
	if err != nil || b.Width != 12 {
		t.Errorf("TypographicBounds(1,1) = %+v, %v; want width 12", b, err)
	}
}

// brokenEngine returns channel data of the wrong shape or fails outright.
type brokenEngine struct {
	direct     any
	computeErr error
}

var errEngineDown = errors.New("engine down")

func (e *brokenEngine) GlyphCount(glyphrun.RunHandle) (int, error) { return 3, nil }
func (e *brokenEngine) DirectBuffer(glyphrun.RunHandle, glyphrun.Channel) (any, error) {
	return e.direct, nil
}
func (e *brokenEngine) ComputeChannel(glyphrun.RunHandle, glyphrun.Channel, glyphrun.Range, any) error {
	return e.computeErr
}
func (e *brokenEngine) TypographicBounds(glyphrun.RunHandle, glyphrun.Range) (glyphrun.TypographicBounds, error) {
	return glyphrun.TypographicBounds{}, e.computeErr
}

func TestRun_EngineFailures(t *testing.T) {
	t.Run("wrong element type", func(t *testing.T) {
		run := glyphrun.NewRun(&brokenEngine{direct: []int{1, 2, 3}}, 1)
		_, err := run.Advances()
		if !errors.Is(err, glyphrun.ErrTypeMismatch) {
			t.Fatalf("Advances() error = %v, want ErrTypeMismatch", err)
		}
		var ce *glyphrun.ChannelError
		if !errors.As(err, &ce) || ce.Channel != glyphrun.Advances {
			t.Errorf("error = %v, want *ChannelError for advances", err)
		}
	})

	t.Run("short direct buffer", func(t *testing.T) {
		run := glyphrun.NewRun(&brokenEngine{direct: []glyphrun.GlyphID{1}}, 1)
		if _, err := run.Glyphs(); !errors.Is(err, glyphrun.ErrTypeMismatch) {
			t.Errorf("Glyphs() error = %v, want ErrTypeMismatch", err)
		}
	})

	t.Run("compute failure surfaces", func(t *testing.T) {
		run := glyphrun.NewRun(&brokenEngine{computeErr: errEngineDown}, 1)
		seq, err := run.Positions()
		if !errors.Is(err, errEngineDown) {
			t.Errorf("Positions() error = %v, want errEngineDown", err)
		}
		if seq.Len() != 0 {
			t.Errorf("failed Positions() returned %d elements", seq.Len())
		}
		if _, err := run.Records(); !errors.Is(err, errEngineDown) {
			t.Errorf("Records() error = %v, want errEngineDown", err)
		}
	})

	t.Run("release unsupported", func(t *testing.T) {
		run := glyphrun.NewRun(&brokenEngine{}, 1)
		if err := run.Release(); !errors.Is(err, glyphrun.ErrUnsupported) {
			t.Errorf("Release() error = %v, want ErrUnsupported", err)
		}
	})
}

func TestRun_ComputeIsLogged(t *testing.T) {
	orig := glyphrun.Logger()
	t.Cleanup(func() { glyphrun.SetLogger(orig) })

	var buf bytes.Buffer
	glyphrun.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	e := memengine.New()
	e.SetDirect(glyphrun.StringIndices, false)
	run := addRun(t, e, sampleRun(4))
	if _, err := run.StringIndices(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "channel=string-indices") {
		t.Errorf("log output %q does not mention the computed channel", buf.String())
	}
}
