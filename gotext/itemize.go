package gotext

import (
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// item is a maximal rune range [start, end) with one bidi level, one
// script and one font. Each item becomes one run.
type item struct {
	start, end int
	level      int
	script     language.Script
	source     *FontSource
}

func (it item) isRTL() bool { return it.level%2 == 1 }

// itemize splits runes into items. sources is the primary font followed
// by the fallbacks in priority order.
func itemize(runes []rune, base Direction, sources []*FontSource) []item {
	if len(runes) == 0 {
		return nil
	}
	levels := bidiLevels(runes, base)
	scripts := resolveScripts(runes)
	fonts := selectFonts(runes, sources)

	items := make([]item, 0, 4)
	cur := item{start: 0, level: levels[0], script: scripts[0], source: fonts[0]}
	for i := 1; i < len(runes); i++ {
		if levels[i] == cur.level && scripts[i] == cur.script && fonts[i] == cur.source {
			continue
		}
		cur.end = i
		items = append(items, cur)
		cur = item{start: i, level: levels[i], script: scripts[i], source: fonts[i]}
	}
	cur.end = len(runes)
	return append(items, cur)
}

// bidiLevels returns the embedding level (0 or 1) of every rune.
func bidiLevels(runes []rune, base Direction) []int {
	levels := make([]int, len(runes))

	defaultDir := bidi.Neutral
	if base == DirectionRTL {
		defaultDir = bidi.RightToLeft
	}

	p := bidi.Paragraph{}
	if _, err := p.SetString(string(runes), bidi.DefaultDirection(defaultDir)); err != nil {
		return levels
	}
	ordering, err := p.Order()
	if err != nil {
		return levels
	}

	// Run.Pos reports rune indices, end inclusive.
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		if run.Direction() != bidi.RightToLeft {
			continue
		}
		for j := start; j <= end && j < len(levels); j++ {
			levels[j] = 1
		}
	}
	return levels
}

// resolveScripts assigns every rune a concrete script where possible:
// Inherited runes take the script before them, Common runes take the
// script of their neighbours.
func resolveScripts(runes []rune) []language.Script {
	scripts := make([]language.Script, len(runes))
	for i, r := range runes {
		scripts[i] = language.LookupScript(r)
	}

	last := language.Common
	for i := range scripts {
		switch scripts[i] {
		case language.Inherited:
			scripts[i] = last
		case language.Common:
		default:
			last = scripts[i]
		}
	}

	last = language.Common
	for i := range scripts {
		if scripts[i] != language.Common {
			last = scripts[i]
			continue
		}
		next := nextConcreteScript(scripts, i+1)
		switch {
		case last != language.Common:
			scripts[i] = last
		case next != language.Common:
			scripts[i] = next
		}
	}

	// Text made only of Common runes is shaped as Latin.
	for i := range scripts {
		if scripts[i] == language.Common {
			scripts[i] = language.Latin
		}
	}
	return scripts
}

func nextConcreteScript(scripts []language.Script, start int) language.Script {
	for j := start; j < len(scripts); j++ {
		if scripts[j] != language.Common && scripts[j] != language.Inherited {
			return scripts[j]
		}
	}
	return language.Common
}

// selectFonts picks, for every rune, the first source that covers it.
// Spaces and marks stay with the previous rune's font when it covers
// them, so runs are not split around punctuation. Runes no source covers
// use the primary font and render as .notdef.
func selectFonts(runes []rune, sources []*FontSource) []*FontSource {
	fonts := make([]*FontSource, len(runes))
	var prev *FontSource
	for i, r := range runes {
		if prev != nil && (unicode.IsSpace(r) || unicode.Is(unicode.Mn, r)) && prev.Covers(r) {
			fonts[i] = prev
			continue
		}
		fonts[i] = sources[0]
		for _, src := range sources {
			if src.Covers(r) {
				fonts[i] = src
				break
			}
		}
		prev = fonts[i]
	}
	return fonts
}

// visualOrder returns the indices of items in display order. In a
// left-to-right line each group of adjacent right-to-left items is
// reversed; in a right-to-left line the whole line is reversed and the
// left-to-right groups are restored.
func visualOrder(items []item, base Direction) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	if base == DirectionRTL {
		reverse(order)
		reverseGroups(order, func(i int) bool { return !items[i].isRTL() })
		return order
	}
	reverseGroups(order, func(i int) bool { return items[i].isRTL() })
	return order
}

// reverseGroups reverses every maximal group of adjacent entries of order
// for which inGroup holds.
func reverseGroups(order []int, inGroup func(int) bool) {
	for i := 0; i < len(order); {
		if !inGroup(order[i]) {
			i++
			continue
		}
		j := i
		for j < len(order) && inGroup(order[j]) {
			j++
		}
		reverse(order[i:j])
		i = j
	}
}

func reverse(s []int) {
	for a, b := 0, len(s)-1; a < b; a, b = a+1, b-1 {
		s[a], s[b] = s[b], s[a]
	}
}
