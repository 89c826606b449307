package widgets

import (
	"git.sr.ht/~rockorager/vaxis"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB converts a colorful colour to a truecolor vaxis colour.
func RGB(c colorful.Color) vaxis.Color {
	r, g, b := c.Clamped().RGB255()
	return vaxis.RGBColor(r, g, b)
}

// HexColor parses a "#rrggbb" chat colour. ok is false for empty or
// malformed input.
func HexColor(hex string) (vaxis.Color, bool) {
	if hex == "" {
		return 0, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, false
	}
	return RGB(c), true
}
