package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TableColumn describes one column of a Table.
type TableColumn struct {
	Width      int // zero takes the remaining width
	AlignRight bool
	Style      vaxis.Style
}

// Table draws rows of text in fixed-width columns, truncating with an
// ellipsis.
type Table struct {
	Columns []TableColumn
	Header  []string // drawn dim when non-nil
	Rows    [][]string
	Gap     int // defaults to 1
}

const ellipsis = "…"

// WriteText draws s into surf at (col, row) within width cells. Text that
// does not fit is cut and ends with an ellipsis.
func WriteText(surf *vxfw.Surface, col, row uint16, width int, s string, style vaxis.Style, alignRight bool) {
	chars := vaxis.Characters(s)
	total := 0
	for _, ch := range chars {
		total += ch.Width
	}

	if total > width && width > 1 {
		cut := make([]vaxis.Character, 0, len(chars))
		used := 0
		for _, ch := range chars {
			if used+ch.Width > width-1 {
				break
			}
			cut = append(cut, ch)
			used += ch.Width
		}
		chars = append(cut, vaxis.Character{Grapheme: ellipsis, Width: 1})
		total = used + 1
	}

	pos := 0
	if alignRight && total < width {
		pos = width - total
	}
	for _, ch := range chars {
		if pos+ch.Width > width {
			break
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{Character: ch, Style: style})
		pos += ch.Width
	}
}

func (t *Table) widths(total int) []int {
	gap := t.gap()
	fixed := 0
	for i, c := range t.Columns {
		fixed += c.Width
		if i > 0 {
			fixed += gap
		}
	}
	out := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Width
		if c.Width == 0 {
			out[i] = max(total-fixed, 1)
		}
	}
	return out
}

func (t *Table) gap() int {
	if t.Gap == 0 {
		return 1
	}
	return t.Gap
}

func (t *Table) drawRow(s *vxfw.Surface, row uint16, widths []int, cells []string, header bool) {
	col := 0
	for i, c := range t.Columns {
		if col >= int(s.Size.Width) {
			return
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		style := c.Style
		if header {
			style = vaxis.Style{Attribute: vaxis.AttrDim}
		}
		w := min(widths[i], int(s.Size.Width)-col)
		WriteText(s, uint16(col), row, w, text, style, c.AlignRight)
		col += widths[i] + t.gap()
	}
}

// Draw renders the header and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	n := len(t.Rows)
	if t.Header != nil {
		n++
	}
	height := min(uint16(n), ctx.Max.Height)
	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	widths := t.widths(int(ctx.Max.Width))

	row := uint16(0)
	if t.Header != nil && row < height {
		t.drawRow(&s, row, widths, t.Header, true)
		row++
	}
	for _, cells := range t.Rows {
		if row >= height {
			break
		}
		t.drawRow(&s, row, widths, cells, false)
		row++
	}
	return s, nil
}
