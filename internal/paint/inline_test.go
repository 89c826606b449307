package paint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineStyle(t *testing.T) {
	st := parseInlineStyle("Color: red;; background-image: url('https://x/y.png') ; bogus")

	assert.Equal(t, "red", st.get("color"))
	assert.Equal(t, "url('https://x/y.png')", st.get("background-image"))

	st.set("color", "transparent")
	st.set("filter", "")
	st.set("background-image", "")
	st.set("filter", "none")

	assert.Equal(t, "color: transparent; filter: none;", st.String())
}

func TestInlineStyle_SemicolonsInsideValues(t *testing.T) {
	st := parseInlineStyle(`background-image: url('data:image/png;base64,AAAA'); content: "a;b"; ` +
		`background: linear-gradient(90deg, #ff0000ff 0%, #0000ffff 100%); /* note; */ color: red !important`)

	assert.Equal(t, "url('data:image/png;base64,AAAA')", st.get("background-image"))
	assert.Equal(t, `"a;b"`, st.get("content"))
	assert.Equal(t, "linear-gradient(90deg, #ff0000ff 0%, #0000ffff 100%)", st.get("background"))
	assert.Equal(t, "red !important", st.get("color"))
	assert.Len(t, st.decls, 4)
}
