package paint

import (
	"log"
	"strings"
)

// CSS properties touched by a paint.
const (
	PropColor          = "color"
	PropWebkitClip     = "-webkit-background-clip"
	PropBackgroundClip = "background-clip"
	PropImage          = "background-image"
	PropSize           = "background-size"
	PropFilter         = "filter"
)

const coverSize = "100% auto"

// declaration is one CSS property/value pair.
type declaration struct {
	prop  string
	value string
}

// textClip makes the text transparent and clips the background to glyphs.
var textClip = []declaration{
	{PropColor, "transparent"},
	{PropWebkitClip, "text"},
	{PropBackgroundClip, "text"},
}

func convertStop(s ColorStop) string {
	return s.Color.Hex() + " " + formatNumber(s.At*100) + "%"
}

func stopList(stops []ColorStop) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = convertStop(s)
	}
	return strings.Join(parts, ", ")
}

// background returns the background declarations for p, or nil when the
// paint's function has nothing usable to draw.
func (p *Paint) background() []declaration {
	repeat := ""
	if p.Repeat {
		repeat = "repeating-"
	}
	switch {
	case p.Function == LinearGradient && len(p.Stops) > 0:
		g := repeat + "linear-gradient(" + formatNumber(p.Angle) + "deg, " + stopList(p.Stops) + ")"
		return []declaration{{PropImage, g}}
	case p.Function == RadialGradient && len(p.Stops) > 0:
		g := repeat + "radial-gradient(circle, " + stopList(p.Stops) + ")"
		return []declaration{{PropImage, g}, {PropSize, coverSize}}
	case p.Function == URL && p.ImageURL != "":
		return []declaration{{PropImage, "url('" + p.ImageURL + "')"}, {PropSize, coverSize}}
	}
	return nil
}

// dropShadows returns the filter value for p's shadows, or "" when it has none.
func (p *Paint) dropShadows() string {
	if len(p.Shadows) == 0 {
		return ""
	}
	parts := make([]string, len(p.Shadows))
	for i, s := range p.Shadows {
		parts[i] = "drop-shadow(" + s.Color.Hex() + " " +
			formatNumber(s.XOffset) + "px " +
			formatNumber(s.YOffset) + "px " +
			formatNumber(s.Radius) + "px)"
	}
	return strings.Join(parts, " ")
}

// ComputeStyle returns the inline CSS declarations that render p as gradient
// text. A nil paint yields "".
func ComputeStyle(p *Paint) string {
	if p == nil {
		log.Printf("paint: no paint provided")
		return ""
	}

	var sb strings.Builder
	for i, d := range textClip {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.prop + ": " + d.value + ";")
	}
	for _, d := range p.background() {
		sb.WriteString(" " + d.prop + ": " + d.value + ";")
	}
	if f := p.dropShadows(); f != "" {
		sb.WriteString(" filter: " + f + ";")
	} else {
		sb.WriteString(" filter: none;")
	}
	return sb.String()
}
