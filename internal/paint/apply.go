package paint

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Resolve finds the element named by target in doc. Targets that look like
// CSS selectors (they contain whitespace, combinators, class, id, attribute
// or pseudo syntax) are queried with a selector engine; anything else is
// treated as an element id. Returns nil when nothing matches.
func Resolve(doc *html.Node, target string) *html.Node {
	if doc == nil || target == "" {
		return nil
	}
	if isSelector(target) {
		sel, err := cascadia.Compile(target)
		if err != nil {
			return nil
		}
		return sel.MatchFirst(doc)
	}
	return elementByID(doc, target)
}

func isSelector(target string) bool {
	return strings.ContainsAny(target, " \t.#>+~[]:*,")
}

func elementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := elementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Apply renders p onto the element of doc named by target by rewriting the
// element's inline style. It reports whether an element was found. The text
// clip properties are always set; the background is only replaced when the
// paint has something to draw; the filter is set from the shadows or removed.
func Apply(p *Paint, doc *html.Node, target string) bool {
	if p == nil {
		return false
	}
	el := Resolve(doc, target)
	if el == nil {
		return false
	}

	style := parseInlineStyle(attr(el, "style"))
	for _, d := range textClip {
		style.set(d.prop, d.value)
	}
	for _, d := range p.background() {
		style.set(d.prop, d.value)
	}
	style.set(PropFilter, p.dropShadows())
	setAttr(el, "style", style.String())
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
