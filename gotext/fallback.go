package gotext

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/gogpu/glyphrun"
)

// FallbackList implements glyphrun.FontEngine. The candidates are the
// engine's fallback sources other than the font's own. Sources covering
// an earlier entry of langs come first; sources matching none keep their
// registration order after them. It returns nil when the engine has no
// fallback sources.
func (e *Engine) FallbackList(f glyphrun.FontHandle, langs []string) (any, error) {
	fs, err := e.font(f)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		source *FontSource
		rank   int
	}
	var cands []candidate
	for _, src := range e.config.fallbacks {
		if src == fs.source || src.live() != nil {
			continue
		}
		cands = append(cands, candidate{source: src, rank: languageRank(src, langs)})
	}
	if len(cands) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(cands, func(a, b candidate) int { return a.rank - b.rank })
	out := make([]any, len(cands))
	for i, c := range cands {
		out[i] = c.source.Descriptor()
	}
	glyphrun.Logger().Debug("gotext: fallback list", "font", fs.source.Name(), "langs", langs, "fonts", len(out))
	return out, nil
}

// languageRank returns the index of the first entry of langs that src
// supports with at least high confidence, or len(langs).
func languageRank(src *FontSource, langs []string) int {
	supported := src.Languages()
	if len(supported) == 0 {
		return len(langs)
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		if t, err := language.Parse(l); err == nil {
			tags = append(tags, t)
		}
	}
	m := language.NewMatcher(tags)
	for i, l := range langs {
		want, err := language.Parse(l)
		if err != nil {
			continue
		}
		if _, _, conf := m.Match(want); conf >= language.High {
			return i
		}
	}
	return len(langs)
}

// NativeFont implements glyphrun.FontEngine. The native object is the
// go-text *font.Font used for shaping.
func (e *Engine) NativeFont(f glyphrun.FontHandle) (any, glyphrun.FontDescriptor, error) {
	fs, err := e.font(f)
	if err != nil {
		return nil, glyphrun.FontDescriptor{}, err
	}
	return fs.source.shape, fs.source.Descriptor(), nil
}

// SupportedLanguages implements glyphrun.FontEngine.
func (e *Engine) SupportedLanguages(f glyphrun.FontHandle) (any, error) {
	fs, err := e.font(f)
	if err != nil {
		return nil, err
	}
	langs := fs.source.Languages()
	out := make([]any, len(langs))
	for i, l := range langs {
		out[i] = l
	}
	return out, nil
}
