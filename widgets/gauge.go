package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/lucasb-eyer/go-colorful"
)

// Gauge is a horizontal bar showing Value relative to Max.
//
//	commands  [██████████░░░░░░░░░░]  51.2%  1,024
type Gauge struct {
	Label      string
	LabelWidth int // column reserved for Label; defaults to len(Label)+1
	Value      float64
	Max        float64
	Suffix     string
	BarWidth   int
}

const (
	gaugeFilled = '█'
	gaugeEmpty  = '░'
)

var (
	gaugeLow  = colorful.Color{R: 0.2, G: 0.8, B: 0.3}
	gaugeHigh = colorful.Color{R: 0.9, G: 0.2, B: 0.2}
)

// Percent returns Value/Max as a percentage clamped to [0, 100]. A zero Max
// yields 0.
func (g *Gauge) Percent() float64 {
	if g.Max <= 0 {
		return 0
	}
	pct := g.Value / g.Max * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FillColor blends from green to red across the gauge's range.
func FillColor(pct float64) colorful.Color {
	return gaugeLow.BlendLab(gaugeHigh, pct/100).Clamped()
}

func (g *Gauge) put(s *vxfw.Surface, ctx vxfw.DrawContext, col uint16, text string, style vaxis.Style) uint16 {
	for _, ch := range ctx.Characters(text) {
		if col >= s.Size.Width {
			break
		}
		s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
		col += uint16(ch.Width)
	}
	return col
}

// Draw renders the gauge as a single row.
func (g *Gauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, g)

	labelWidth := g.LabelWidth
	if labelWidth == 0 {
		labelWidth = len(g.Label) + 1
	}
	col := g.put(&s, ctx, 0, fmt.Sprintf("%-*s", labelWidth, g.Label), vaxis.Style{Attribute: vaxis.AttrBold})
	col = g.put(&s, ctx, col, "[", vaxis.Style{})

	pct := g.Percent()
	filled := int(pct / 100 * float64(g.BarWidth))
	fill := vaxis.Style{Foreground: RGB(FillColor(pct))}
	empty := vaxis.Style{Foreground: vaxis.IndexColor(8)}
	for i := 0; i < g.BarWidth; i++ {
		if i < filled {
			col = g.put(&s, ctx, col, string(gaugeFilled), fill)
		} else {
			col = g.put(&s, ctx, col, string(gaugeEmpty), empty)
		}
	}

	col = g.put(&s, ctx, col, fmt.Sprintf("] %5.1f%%", pct), vaxis.Style{})
	if g.Suffix != "" {
		g.put(&s, ctx, col, "  "+g.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}
	return s, nil
}
