package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphrun"
	"github.com/gogpu/glyphrun/gotext"
)

func newDrawCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw [flags] TEXT",
		Short: "Render shaped text to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.withFlags(cmd)
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}
			pad, err := cmd.Flags().GetInt("padding")
			if err != nil {
				return fmt.Errorf("failed to get padding flag: %w", err)
			}
			if pad < 0 {
				return fmt.Errorf("negative padding %d", pad)
			}

			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.shape(args[0])
			if err != nil {
				return err
			}
			img, err := render(s.engine, runs, pad)
			if err != nil {
				return err
			}
			if err := writeFile(output, func(w io.Writer) error { return png.Encode(w, img) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %dx%d image to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), output)
			return nil
		},
	}
	addShapeFlags(cmd)
	cmd.Flags().StringP("output", "o", "text.png", "output PNG file")
	cmd.Flags().Int("padding", 4, "margin around the ink in pixels")
	return cmd
}

// placed is the glyphs of one run ready to draw.
type placed struct {
	font   *glyphrun.Font
	glyphs []glyphrun.GlyphPosition
}

// render draws runs in black on a white image just large enough for the
// ink plus pad pixels on every side.
func render(e *gotext.Engine, runs []*glyphrun.Run, pad int) (*image.RGBA, error) {
	var ink glyphrun.Rect
	layers := make([]placed, 0, len(runs))
	for i, run := range runs {
		f, err := e.FontOf(run)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		recs, err := run.Records()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		var p placed
		p.font = f
		var ids []glyphrun.GlyphID
		for rec := range recs {
			p.glyphs = append(p.glyphs, glyphrun.GlyphPosition{Glyph: rec.Glyph, Position: rec.Position})
			ids = append(ids, rec.Glyph)
		}
		_, rects, err := f.BoundingRects(ids, glyphrun.OrientationHorizontal)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		for j, r := range rects {
			pos := p.glyphs[j].Position
			ink = ink.Union(r.Translate(pos.X, pos.Y))
		}
		layers = append(layers, p)
	}

	origin := glyphrun.Point{X: float64(pad) - math.Floor(ink.MinX), Y: float64(pad) - math.Floor(ink.MinY)}
	w := int(math.Ceil(ink.MaxX)-math.Floor(ink.MinX)) + 2*pad
	h := int(math.Ceil(ink.MaxY)-math.Floor(ink.MinY)) + 2*pad
	if ink.IsEmpty() {
		w, h = 2*pad+1, 2*pad+1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	canvas := glyphrun.Canvas{Dst: img, Color: color.Black}
	for i, p := range layers {
		for j := range p.glyphs {
			p.glyphs[j].Position = p.glyphs[j].Position.Add(origin)
		}
		if err := p.font.Draw(p.glyphs, canvas); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}
	return img, nil
}
