package paint

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// inlineStyle is an element's style attribute as an ordered list of
// declarations.
type inlineStyle struct {
	decls []declaration
}

// parseInlineStyle tokenizes a style attribute. Semicolons and colons only
// separate declarations at nesting depth zero, so quoted strings, url() and
// function arguments survive intact. Declarations without a property are
// dropped.
func parseInlineStyle(s string) *inlineStyle {
	st := &inlineStyle{}
	l := css.NewLexer(parse.NewInputString(s))

	var (
		prop, value strings.Builder
		inValue     bool
		depth       int
	)
	flush := func() {
		p := strings.ToLower(strings.TrimSpace(prop.String()))
		v := strings.TrimSpace(value.String())
		if inValue && p != "" {
			st.set(p, v)
		}
		prop.Reset()
		value.Reset()
		inValue = false
		depth = 0
	}

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		switch tt {
		case css.CommentToken:
			continue
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.ColonToken:
			if depth == 0 && !inValue {
				inValue = true
				continue
			}
		}
		if inValue {
			value.Write(data)
		} else {
			prop.Write(data)
		}
	}
	flush()
	return st
}

// set replaces prop in place, appends it when new, and removes it when value
// is empty.
func (st *inlineStyle) set(prop, value string) {
	for i, d := range st.decls {
		if d.prop != prop {
			continue
		}
		if value == "" {
			st.decls = append(st.decls[:i], st.decls[i+1:]...)
		} else {
			st.decls[i].value = value
		}
		return
	}
	if value != "" {
		st.decls = append(st.decls, declaration{prop, value})
	}
}

func (st *inlineStyle) get(prop string) string {
	for _, d := range st.decls {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

func (st *inlineStyle) String() string {
	parts := make([]string, len(st.decls))
	for i, d := range st.decls {
		parts[i] = d.prop + ": " + d.value + ";"
	}
	return strings.Join(parts, " ")
}
