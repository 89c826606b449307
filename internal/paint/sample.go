package paint

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colorful converts c to a go-colorful color, dropping alpha.
func (c Color) Colorful() colorful.Color {
	r, g, b, _ := c.RGBA()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Sample returns the gradient color at position t in [0,1] along the
// paint's stops. Stop positions are clamped to be non-decreasing, as CSS
// does. Repeating paints tile the span between the first and last stop.
// The second result is false for paints without stops.
func (p *Paint) Sample(t float64) (colorful.Color, bool) {
	if p == nil || len(p.Stops) == 0 {
		return colorful.Color{}, false
	}
	if p.Function != LinearGradient && p.Function != RadialGradient {
		return colorful.Color{}, false
	}

	at := make([]float64, len(p.Stops))
	for i, s := range p.Stops {
		at[i] = s.At
		if i > 0 && at[i] < at[i-1] {
			at[i] = at[i-1]
		}
	}

	first, last := at[0], at[len(at)-1]
	if p.Repeat && last > first {
		span := last - first
		t = first + math.Mod(math.Mod(t-first, span)+span, span)
	}

	if t <= first {
		return p.Stops[0].Color.Colorful(), true
	}
	for i := 1; i < len(at); i++ {
		if t > at[i] {
			continue
		}
		lo, hi := p.Stops[i-1].Color.Colorful(), p.Stops[i].Color.Colorful()
		width := at[i] - at[i-1]
		if width == 0 {
			return hi, true
		}
		return lo.BlendRgb(hi, (t-at[i-1])/width).Clamped(), true
	}
	return p.Stops[len(p.Stops)-1].Color.Colorful(), true
}

// Colors samples n evenly spaced colors across the gradient, one per glyph of
// an n-character label. When the paint has no stops, fallback is repeated.
func (p *Paint) Colors(n int, fallback colorful.Color) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c, ok := p.Sample(t)
		if !ok {
			c = fallback
		}
		out[i] = c
	}
	return out
}

// luminanceThreshold is the perceived brightness under which a chat color is
// considered too dark for a dark background.
const luminanceThreshold = 100

// BrightenColor lightens a "#rrggbb" chat color by percent of full scale
// when it is dark. Light colors and unparsable input are returned unchanged.
func BrightenColor(hex string, percent float64) string {
	if hex == "" {
		return hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if lum >= luminanceThreshold {
		return hex
	}
	delta := math.Round(255 * percent / 100)
	brighten := func(v uint8) float64 {
		return math.Min(255, math.Max(0, float64(v)+delta)) / 255
	}
	return colorful.Color{R: brighten(r), G: brighten(g), B: brighten(b)}.Hex()
}
