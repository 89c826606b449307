package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline is a one-row history graph over a fixed-size ring of samples.
type Sparkline struct {
	// Color of the blocks; zero means cyan.
	Color vaxis.Color

	ring []float64
	next int
	n    int
	peak float64
}

// NewSparkline creates a Sparkline keeping the last capacity samples.
func NewSparkline(capacity int) *Sparkline {
	if capacity < 1 {
		capacity = 1
	}
	return &Sparkline{ring: make([]float64, capacity)}
}

// Push records a sample, evicting the oldest once full.
func (sl *Sparkline) Push(v float64) {
	sl.ring[sl.next] = v
	sl.next = (sl.next + 1) % len(sl.ring)
	if sl.n < len(sl.ring) {
		sl.n++
	}
	if sl.n == 1 || v > sl.peak {
		sl.peak = v
	}
}

// Count returns the number of samples held.
func (sl *Sparkline) Count() int {
	return sl.n
}

// Last returns the most recent sample.
func (sl *Sparkline) Last() (float64, bool) {
	if sl.n == 0 {
		return 0, false
	}
	return sl.ring[(sl.next-1+len(sl.ring))%len(sl.ring)], true
}

// Peak returns the largest sample ever pushed, including evicted ones.
func (sl *Sparkline) Peak() float64 {
	return sl.peak
}

// Values returns the held samples oldest first.
func (sl *Sparkline) Values() []float64 {
	out := make([]float64, 0, sl.n)
	start := (sl.next - sl.n + len(sl.ring)) % len(sl.ring)
	for i := 0; i < sl.n; i++ {
		out = append(out, sl.ring[(start+i)%len(sl.ring)])
	}
	return out
}

func level(v, lo, hi float64) int {
	if hi == lo {
		if hi > 0 {
			return 3
		}
		return 0
	}
	l := int(math.Round((v - lo) / (hi - lo) * 7))
	return max(0, min(l, 7))
}

// Draw renders the newest samples that fit, right-most being the latest.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.Values()
	if w := int(ctx.Max.Width); len(vals) > w {
		vals = vals[len(vals)-w:]
	}
	if len(vals) == 0 {
		return s, nil
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	color := sl.Color
	if color == 0 {
		color = vaxis.IndexColor(6)
	}
	style := vaxis.Style{Foreground: color}
	for i, v := range vals {
		for _, c := range ctx.Characters(string(sparkBlocks[level(v, lo, hi)])) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{Character: c, Style: style})
		}
	}
	return s, nil
}
