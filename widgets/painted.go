package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/potatbotat/potat-tui/internal/paint"
)

// PaintedText draws a single line whose glyphs are coloured along a paint's
// gradient. Paints without stops (image paints, nil) fall back to the flat
// Fallback chat colour, or the terminal default when that is empty too.
type PaintedText struct {
	Text     string
	Paint    *paint.Paint
	Fallback string
	Bold     bool
}

// Colors returns the foreground of each glyph of Text, or nil when the text
// should use the default colour.
func (pt *PaintedText) Colors(ctx vxfw.DrawContext) []vaxis.Color {
	chars := ctx.Characters(pt.Text)
	fallback, hasFallback := colorful.Color{}, false
	if pt.Fallback != "" {
		if c, err := colorful.Hex(paint.BrightenColor(pt.Fallback, 25)); err == nil {
			fallback, hasFallback = c, true
		}
	}
	if _, ok := pt.Paint.Sample(0); !ok && !hasFallback {
		return nil
	}
	samples := pt.Paint.Colors(len(chars), fallback)
	out := make([]vaxis.Color, len(samples))
	for i, c := range samples {
		out[i] = RGB(c)
	}
	return out
}

func (pt *PaintedText) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, pt)
	colors := pt.Colors(ctx)

	base := vaxis.Style{}
	if pt.Bold {
		base.Attribute = vaxis.AttrBold
	}
	col := uint16(0)
	for i, ch := range ctx.Characters(pt.Text) {
		if col+uint16(ch.Width) > ctx.Max.Width {
			break
		}
		style := base
		if colors != nil {
			style.Foreground = colors[i]
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return s, nil
}
