package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TabBar is a single-row tab strip with an optional right-aligned status.
//
//	 1 Stats | 2 Commands | 3 Partners | 4 History            feed: open
type TabBar struct {
	labels []string
	active int

	// Status is drawn flush right, dimmed.
	Status string
}

// NewTabBar creates a TabBar with the first tab active.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{labels: labels}
}

// Active returns the active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// Len returns the number of tabs.
func (tb *TabBar) Len() int {
	return len(tb.labels)
}

// SetActive selects tab i. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.labels) {
		tb.active = i
	}
}

// Next selects the following tab, wrapping.
func (tb *TabBar) Next() {
	if len(tb.labels) > 0 {
		tb.active = (tb.active + 1) % len(tb.labels)
	}
}

// Prev selects the preceding tab, wrapping.
func (tb *TabBar) Prev() {
	if len(tb.labels) > 0 {
		tb.active = (tb.active - 1 + len(tb.labels)) % len(tb.labels)
	}
}

// Draw renders the tabs with the active one in reverse video.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

	write := func(col uint16, text string, style vaxis.Style) uint16 {
		for _, ch := range ctx.Characters(text) {
			if col >= ctx.Max.Width {
				break
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
		return col
	}

	col := uint16(0)
	for i, label := range tb.labels {
		if i > 0 {
			col = write(col, "|", vaxis.Style{Attribute: vaxis.AttrDim})
		}
		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse
		}
		col = write(col, " "+label+" ", style)
	}

	if tb.Status != "" {
		status := ctx.Characters(tb.Status + " ")
		w := 0
		for _, ch := range status {
			w += ch.Width
		}
		if start := int(ctx.Max.Width) - w; start > int(col) {
			write(uint16(start), tb.Status+" ", vaxis.Style{Attribute: vaxis.AttrDim})
		}
	}
	return s, nil
}
