// Package paint renders 7TV-style username paints: gradient or image fills
// clipped to text, plus an optional stack of drop shadows.
package paint

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Function selects how a Paint's fields are interpreted.
type Function string

const (
	LinearGradient Function = "LINEAR_GRADIENT"
	RadialGradient Function = "RADIAL_GRADIENT"
	URL            Function = "URL"
)

// Color is a packed 32-bit RGBA value as sent by the backend.
type Color uint32

// UnmarshalJSON accepts any JSON integer, wrapping signed values into the
// unsigned 32-bit range.
func (c *Color) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("paint color: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*c = Color(uint32(i))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("paint color %q: %w", n, err)
	}
	*c = Color(wrapUint32(f))
	return nil
}

// Hex returns the color as "#" followed by eight lowercase hex digits.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// RGBA splits the packed value into its channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ColorStop is one gradient stop. At is a fraction in [0,1].
type ColorStop struct {
	Color Color   `json:"color"`
	At    float64 `json:"at"`
}

// Shadow is one drop-shadow layer, offsets and radius in pixels.
type Shadow struct {
	Color   Color   `json:"color"`
	XOffset float64 `json:"x_offset"`
	YOffset float64 `json:"y_offset"`
	Radius  float64 `json:"radius"`
}

// Paint describes a fill applied to text.
type Paint struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Function Function    `json:"function"`
	Stops    []ColorStop `json:"stops,omitempty"`
	Angle    float64     `json:"angle,omitempty"`
	Repeat   bool        `json:"repeat,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	Shadows  []Shadow    `json:"shadows,omitempty"`
}

// wrapUint32 truncates f and reduces it modulo 2^32.
func wrapUint32(f float64) uint32 {
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

// formatNumber prints v the shortest way that round-trips, switching to
// exponent notation below 1e-6 and from 1e21 up, as browsers print numbers.
func formatNumber(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-6 || a >= 1e21) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
