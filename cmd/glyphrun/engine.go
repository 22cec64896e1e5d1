package main

import (
	"fmt"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphrun"
	"github.com/gogpu/glyphrun/gotext"
)

// builtinFonts are the fonts usable by name without a file.
var builtinFonts = map[string][]byte{
	"go":      goregular.TTF,
	"go-mono": gomono.TTF,
	"go-bold": gobold.TTF,
}

// openSource loads a builtin font by name or a font file by path.
func openSource(name string) (*gotext.FontSource, error) {
	if data, ok := builtinFonts[name]; ok {
		return gotext.NewFontSource(data)
	}
	src, err := gotext.NewFontSourceFromFile(name)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	return src, nil
}

// session is an engine with the configured primary font.
type session struct {
	engine  *gotext.Engine
	font    *glyphrun.Font
	sources []*gotext.FontSource
}

func newSession(cfg config) (*session, error) {
	s := &session{}
	primary, err := openSource(cfg.Font)
	if err != nil {
		return nil, err
	}
	s.sources = append(s.sources, primary)

	var fallbacks []*gotext.FontSource
	for _, name := range cfg.Fallbacks {
		src, err := openSource(name)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.sources = append(s.sources, src)
		fallbacks = append(fallbacks, src)
	}

	dir, err := cfg.direction()
	if err != nil {
		s.Close()
		return nil, err
	}
	opts := []gotext.EngineOption{
		gotext.WithFallbackSources(fallbacks...),
		gotext.WithLanguage(cfg.Language),
		gotext.WithDirection(dir),
	}
	if cfg.cachedSet {
		chs, err := cfg.cachedChannels()
		if err != nil {
			s.Close()
			return nil, err
		}
		opts = append(opts, gotext.WithCachedChannels(chs...))
	}

	s.engine = gotext.NewEngine(opts...)
	s.font, err = s.engine.NewFont(primary, cfg.Size)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes every font source of the session.
func (s *session) Close() {
	for _, src := range s.sources {
		_ = src.Close()
	}
}

func (s *session) shape(text string) ([]*glyphrun.Run, error) {
	runs, err := s.engine.Shape(text, s.font)
	if err != nil {
		return nil, fmt.Errorf("shape %q: %w", text, err)
	}
	return runs, nil
}
