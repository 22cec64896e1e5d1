package memengine

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/glyphrun"
)

func threeGlyphs() glyphrun.RunData {
	return glyphrun.RunData{
		Advances:      []glyphrun.Size{{Width: 10}, {Width: 12}, {Width: 9}},
		Glyphs:        []glyphrun.GlyphID{5, 12, 7},
		Positions:     []glyphrun.Point{{X: 0}, {X: 10}, {X: 22}},
		StringIndices: []int{0, 1, 2},
		Bounds:        glyphrun.TypographicBounds{Width: 31, Ascent: 12, Descent: 3, Leading: 1},
	}
}

func TestEngine_AddCopiesInput(t *testing.T) {
	e := New()
	d := threeGlyphs()
	run, err := e.Add(d)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	d.Glyphs[0] = 99

	ids, err := run.Glyphs()
	if err != nil {
		t.Fatal(err)
	}
	if ids.At(0) != 5 {
		t.Errorf("engine shares memory with the caller: At(0) = %d", ids.At(0))
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEngine_AddMisaligned(t *testing.T) {
	d := threeGlyphs()
	d.Positions = d.Positions[:2]
	if _, err := New().Add(d); !errors.Is(err, ErrMisaligned) {
		t.Errorf("Add() error = %v, want ErrMisaligned", err)
	}
}

func TestEngine_DirectBufferToggle(t *testing.T) {
	e := New()
	run, _ := e.Add(threeGlyphs())
	h := run.Handle()

	buf, err := e.DirectBuffer(h, glyphrun.GlyphIDs)
	if err != nil || buf == nil {
		t.Fatalf("DirectBuffer() = %v, %v", buf, err)
	}
	if _, ok := buf.([]glyphrun.GlyphID); !ok {
		t.Errorf("DirectBuffer(GlyphIDs) is %T", buf)
	}

	e.SetDirect(glyphrun.GlyphIDs, false)
	buf, err = e.DirectBuffer(h, glyphrun.GlyphIDs)
	if err != nil || buf != nil {
		t.Errorf("DirectBuffer() after SetDirect(false) = %v, %v; want untyped nil", buf, err)
	}

	// Unknown channels are ignored.
	e.SetDirect(glyphrun.Channel(len(glyphrun.Channels)), false)
	e.SetDirect(glyphrun.Channel(200), true)
	if buf, _ := e.DirectBuffer(h, glyphrun.Advances); buf == nil {
		t.Error("SetDirect(unknown channel) changed a known channel")
	}
}

func TestEngine_ComputeChannel(t *testing.T) {
	e := New()
	run, _ := e.Add(threeGlyphs())
	h := run.Handle()

	dst := make([]glyphrun.Point, 2)
	if err := e.ComputeChannel(h, glyphrun.Positions, glyphrun.Range{Location: 1, Length: 2}, dst); err != nil {
		t.Fatalf("ComputeChannel() error = %v", err)
	}
	if !slices.Equal(dst, []glyphrun.Point{{X: 10}, {X: 22}}) {
		t.Errorf("ComputeChannel() wrote %v", dst)
	}

	err := e.ComputeChannel(h, glyphrun.Positions, glyphrun.Range{Location: 0, Length: 2}, make([]glyphrun.Size, 2))
	if !errors.Is(err, glyphrun.ErrTypeMismatch) {
		t.Errorf("wrong dst type error = %v, want ErrTypeMismatch", err)
	}
	err = e.ComputeChannel(h, glyphrun.Positions, glyphrun.Range{Location: 2, Length: 2}, make([]glyphrun.Point, 2))
	if !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
		t.Errorf("range error = %v, want ErrRangeOutOfBounds", err)
	}
	if e.ComputeCalls() != 3 {
		t.Errorf("ComputeCalls() = %d, want 3", e.ComputeCalls())
	}
}

func TestEngine_ComputeChannelWrappingRange(t *testing.T) {
	e := New()
	e.SetAllDirect(false)
	run, _ := e.Add(threeGlyphs())
	h := run.Handle()

	for _, r := range []glyphrun.Range{
		{Location: math.MaxInt, Length: 1},
		{Location: 1, Length: math.MaxInt},
	} {
		if err := e.ComputeChannel(h, glyphrun.GlyphIDs, r, make([]glyphrun.GlyphID, 1)); !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
			t.Errorf("ComputeChannel(%+v) error = %v, want ErrRangeOutOfBounds", r, err)
		}
		if _, err := e.TypographicBounds(h, r); !errors.Is(err, glyphrun.ErrRangeOutOfBounds) {
			t.Errorf("TypographicBounds(%+v) error = %v, want ErrRangeOutOfBounds", r, err)
		}
	}
}

func TestEngine_TypographicBoundsVertical(t *testing.T) {
	e := New()
	d := glyphrun.RunData{
		Advances:      []glyphrun.Size{{Height: 16}, {Height: 16}, {Height: 14}},
		Glyphs:        []glyphrun.GlyphID{5, 12, 7},
		Positions:     []glyphrun.Point{{Y: 0}, {Y: 16}, {Y: 32}},
		StringIndices: []int{0, 1, 2},
		Bounds:        glyphrun.TypographicBounds{Ascent: 12, Descent: 3},
	}
	run, err := e.Add(d)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	tb, err := run.TypographicBounds(glyphrun.Range{})
	if err != nil {
		t.Fatalf("TypographicBounds() error = %v", err)
	}
	if tb.Width != 46 {
		t.Errorf("Width = %v, want 46", tb.Width)
	}
	tb, _ = run.TypographicBounds(glyphrun.Range{Location: 1, Length: 1})
	if tb.Width != 16 {
		t.Errorf("Width of glyph 1 = %v, want 16", tb.Width)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, "abc", []glyphrun.RunData{d}); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	_, loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded[0].Bounds.Width != 46 {
		t.Errorf("loaded Width = %v, want 46", loaded[0].Bounds.Width)
	}
}

func TestEngine_Release(t *testing.T) {
	e := New()
	run, _ := e.Add(threeGlyphs())
	if err := e.Release(run.Handle()); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := e.Release(run.Handle()); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("second Release() error = %v", err)
	}
	if _, err := e.GlyphCount(run.Handle()); !errors.Is(err, glyphrun.ErrInvalidHandle) {
		t.Errorf("GlyphCount() after release error = %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d after release", e.Len())
	}
}

func TestEngine_Capabilities(t *testing.T) {
	e := New()
	if !glyphrun.Supports(e, glyphrun.CapRelease) || !glyphrun.Supports(e, glyphrun.CapTypographicBounds) {
		t.Errorf("Capabilities() = %v", e.Capabilities())
	}
	if glyphrun.Supports(e, glyphrun.CapDrawGlyphs) {
		t.Error("memengine has no fonts and cannot draw")
	}
}

func TestDumpLoad(t *testing.T) {
	runs := []glyphrun.RunData{threeGlyphs(), {
		Advances:      []glyphrun.Size{},
		Glyphs:        []glyphrun.GlyphID{},
		Positions:     []glyphrun.Point{},
		StringIndices: []int{},
	}}

	var buf bytes.Buffer
	if err := Dump(&buf, "Hi!", runs); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	source, got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if source != "Hi!" {
		t.Errorf("source = %q, want %q", source, "Hi!")
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d runs, want 2", len(got))
	}
	want := runs[0]
	if !slices.Equal(got[0].Glyphs, want.Glyphs) || !slices.Equal(got[0].Advances, want.Advances) ||
		!slices.Equal(got[0].Positions, want.Positions) || !slices.Equal(got[0].StringIndices, want.StringIndices) {
		t.Errorf("run 0 = %+v, want %+v", got[0], want)
	}
	if got[0].Bounds != want.Bounds {
		t.Errorf("run 0 bounds = %+v, want %+v", got[0].Bounds, want.Bounds)
	}
	if got[1].Len() != 0 || !got[1].Aligned() {
		t.Errorf("empty run = %+v", got[1])
	}
}

func TestLoadInto(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, "", []glyphrun.RunData{threeGlyphs()}); err != nil {
		t.Fatal(err)
	}
	e := New()
	e.SetAllDirect(false)
	_, runs, err := LoadInto(e, &buf)
	if err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}
	ids, err := runs[0].Glyphs()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids.Clone(), []glyphrun.GlyphID{5, 12, 7}) {
		t.Errorf("loaded glyphs = %v", ids.Clone())
	}
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		if _, _, err := Load(bytes.NewReader([]byte{0xc1})); err == nil {
			t.Error("Load() of garbage should fail")
		}
	})

	t.Run("future version", func(t *testing.T) {
		raw, err := msgpack.Marshal(&dumpFile{Version: dumpVersion + 1})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := Load(bytes.NewReader(raw)); err == nil {
			t.Error("Load() of a newer dump version should fail")
		}
	})

	t.Run("misaligned record", func(t *testing.T) {
		raw, err := msgpack.Marshal(&dumpFile{Version: dumpVersion, Runs: []dumpRecord{{
			Glyphs:        []uint16{1, 2},
			Advances:      [][2]float64{{1, 0}},
			Positions:     [][2]float64{{0, 0}, {1, 0}},
			StringIndices: []int{0, 1},
		}}})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := Load(bytes.NewReader(raw)); !errors.Is(err, ErrMisaligned) {
			t.Errorf("Load() error = %v, want ErrMisaligned", err)
		}
	})
}
