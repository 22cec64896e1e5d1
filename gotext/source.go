package gotext

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/glyphrun"
)

// FontSource is a parsed TTF/OTF font shared by every font handle created
// from it. It holds two views of the same data: a go-text font for
// shaping and an sfnt font for metrics, names and outlines.
//
// FontSource is safe for concurrent use.
// FontSource must not be copied after creation.
type FontSource struct {
	// addr points to the FontSource itself and detects copies.
	addr *FontSource

	data  []byte
	sfnt  *sfnt.Font
	shape *font.Font
	desc  glyphrun.FontDescriptor

	mu     sync.RWMutex
	closed bool

	langsOnce sync.Once
	langs     []string

	config sourceConfig
}

// NewFontSource parses font data (TTF or OTF). The data slice is copied
// internally and can be reused after this call.
func NewFontSource(data []byte, opts ...SourceOption) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	config := defaultSourceConfig()
	for _, opt := range opts {
		opt(&config)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	parsed, err := sfnt.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("gotext: failed to parse font: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, fmt.Errorf("gotext: failed to load font for shaping: %w", err)
	}

	s := &FontSource{
		data:   dataCopy,
		sfnt:   parsed,
		shape:  face.Font,
		config: config,
	}
	s.addr = s
	s.desc = describe(parsed)
	if config.name != "" {
		s.desc.Family = config.name
	}
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string, opts ...SourceOption) (*FontSource, error) {
	// #nosec G304 -- font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotext: failed to read font file: %w", err)
	}
	return NewFontSource(data, opts...)
}

// Name returns the font family name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.desc.Family
}

// Descriptor returns the naming attributes of the font together with the
// languages it covers.
func (s *FontSource) Descriptor() glyphrun.FontDescriptor {
	s.copyCheck()
	d := s.desc
	d.Languages = s.Languages()
	return d
}

// Languages returns the language tags whose exemplar characters the font
// covers completely, in a fixed order.
func (s *FontSource) Languages() []string {
	s.copyCheck()
	s.langsOnce.Do(func() {
		s.langs = coveredLanguages(s)
	})
	out := make([]string, len(s.langs))
	copy(out, s.langs)
	return out
}

// Covers reports whether the font maps r to a glyph.
func (s *FontSource) Covers(r rune) bool {
	var buf sfnt.Buffer
	idx, err := s.sfnt.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// Close releases the font data. Fonts created from a closed source fail
// with ErrSourceClosed.
func (s *FontSource) Close() error {
	s.copyCheck()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}

func (s *FontSource) live() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSourceClosed
	}
	return nil
}

// copyCheck panics if FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("gotext: FontSource must not be copied by value")
	}
}

// describe reads the naming table. Missing names are left empty, except
// the family which falls back to the full name.
func describe(f *sfnt.Font) glyphrun.FontDescriptor {
	var buf sfnt.Buffer
	name := func(id sfnt.NameID) string {
		s, err := f.Name(&buf, id)
		if err != nil {
			return ""
		}
		return s
	}
	d := glyphrun.FontDescriptor{
		Family:         name(sfnt.NameIDFamily),
		Subfamily:      name(sfnt.NameIDSubfamily),
		FullName:       name(sfnt.NameIDFull),
		PostScriptName: name(sfnt.NameIDPostScript),
	}
	if d.Family == "" {
		d.Family = d.FullName
	}
	if d.Family == "" {
		d.Family = "Unknown Font"
	}
	return d
}
