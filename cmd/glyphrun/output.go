package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/glyphrun"
)

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.Faint)
)

// columns of the glyph table with their display widths.
var columns = []struct {
	name  string
	width int
}{
	{"#", 4},
	{"glyph", 6},
	{"char", 6},
	{"advance", 16},
	{"position", 18},
	{"index", 5},
}

// printRuns writes one table per run. text is the shaped text; it may be
// nil when unknown.
func printRuns(w io.Writer, text []rune, runs []*glyphrun.Run) error {
	for i, run := range runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := printRun(w, i, text, run); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}
	return nil
}

func printRun(w io.Writer, n int, text []rune, run *glyphrun.Run) error {
	count, err := run.GlyphCount()
	if err != nil {
		return err
	}
	titleColor.Fprintf(w, "run %d", n)
	dimColor.Fprintf(w, " (%d glyphs)\n", count)

	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = c.name
	}
	headerColor.Fprintln(w, formatRow(cells))

	recs, err := run.Records()
	if err != nil {
		return err
	}
	for rec := range recs {
		cells[0] = fmt.Sprint(rec.Index)
		cells[1] = fmt.Sprint(rec.Glyph)
		cells[2] = displayChar(text, rec.StringIndex)
		cells[3] = fmt.Sprintf("%.2f,%.2f", rec.Advance.Width, rec.Advance.Height)
		cells[4] = fmt.Sprintf("%.2f,%.2f", rec.Position.X, rec.Position.Y)
		cells[5] = fmt.Sprint(rec.StringIndex)
		fmt.Fprintln(w, formatRow(cells))
	}

	if !glyphrun.Supports(run.Engine(), glyphrun.CapTypographicBounds) {
		return nil
	}
	tb, err := run.TypographicBounds(glyphrun.Range{})
	if err != nil {
		return err
	}
	dimColor.Fprintf(w, "width %.2f  ascent %.2f  descent %.2f  leading %.2f\n",
		tb.Width, tb.Ascent, tb.Descent, tb.Leading)
	return nil
}

// formatRow pads cells to the column widths, measuring display width so
// wide characters keep the columns aligned.
func formatRow(cells []string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == len(cells)-1 {
			b.WriteString(c)
			break
		}
		b.WriteString(runewidth.FillRight(runewidth.Truncate(c, columns[i].width, "…"), columns[i].width))
	}
	return b.String()
}

// displayChar returns a printable form of text[i].
func displayChar(text []rune, i int) string {
	if i < 0 || i >= len(text) {
		return "?"
	}
	r := text[i]
	switch {
	case r == ' ':
		return "␠"
	case unicode.IsControl(r) || unicode.Is(unicode.Mn, r):
		return fmt.Sprintf("U+%04X", r)
	default:
		return string(r)
	}
}
