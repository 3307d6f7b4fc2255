package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEmpty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
}

func TestCleanRemovesScript(t *testing.T) {
	out := Clean(`<div>Hello</div><script>alert("xss")</script>`)
	assert.Contains(t, out, "Hello")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
}

func TestCleanRemovesNestedScriptAndIframe(t *testing.T) {
	out := Clean(`<section><p>keep</p><SCRIPT type="text/javascript">steal()</SCRIPT><iframe src="https://evil.example">inner</iframe></section>`)
	assert.Equal(t, `<section><p>keep</p></section>`, out)
}

func TestCleanRemovesEventHandlers(t *testing.T) {
	out := Clean(`<button onclick="alert('xss')" class="btn">Click</button>`)
	assert.Contains(t, out, "<button")
	assert.Contains(t, out, "Click")
	assert.Contains(t, out, `class="btn"`)
	assert.NotContains(t, out, "onclick")
}

func TestCleanRemovesEveryDeniedHandler(t *testing.T) {
	for attr := range eventHandlerAttrs {
		t.Run(attr, func(t *testing.T) {
			out := Clean(`<span ` + strings.ToUpper(attr) + `="x()">text</span>`)
			assert.Equal(t, `<span>text</span>`, out)
		})
	}
}

func TestCleanRemovesJavaScriptURLs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"href", `<a href="javascript:alert(1)">bad</a>`, `<a>bad</a>`},
		{"mixed case", `<a href="JaVaScRiPt:alert(1)">bad</a>`, `<a>bad</a>`},
		{"leading space", `<a href="  javascript:alert(1)">bad</a>`, `<a>bad</a>`},
		{"src", `<img src="javascript:alert(1)" alt="x"/>`, `<img alt="x"/>`},
		{"action", `<form action="javascript:go()"><input name="q"/></form>`, `<form><input name="q"/></form>`},
		{"safe href kept", `<a href="#library" data-page="library">Library</a>`, `<a href="#library" data-page="library">Library</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Clean(tt.in)
			assert.Equal(t, tt.want, out)
			assert.NotContains(t, strings.ToLower(out), "javascript:")
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		`<div>Hello</div><script>alert(1)</script>`,
		`<p>one<p>two`,
		`<table><tr><td onclick="x()">cell</td></tr></table>`,
		`<a href="javascript:void(0)" onmouseover="x()">a &amp; b</a>`,
		`plain text with <b>bold</b> & ampersand`,
		`<ul><li>one<li>two</ul><iframe></iframe>`,
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestCleanKeepsTextEscaped(t *testing.T) {
	out := Clean(`<p>1 &lt; 2</p>`)
	assert.Equal(t, `<p>1 &lt; 2</p>`, out)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", Escape("<b>hi</b>"))
}

func TestIsJavaScriptURL(t *testing.T) {
	assert.True(t, IsJavaScriptURL("javascript:alert(1)"))
	assert.True(t, IsJavaScriptURL("\tJAVASCRIPT:x"))
	assert.False(t, IsJavaScriptURL("https://example.com/javascript:"))
	assert.False(t, IsJavaScriptURL("java"))
}

func TestNormalizeKeepsEverything(t *testing.T) {
	raw := `<p onclick="x()">hi</p><script>y()</script>`
	out := Normalize(raw)
	assert.Contains(t, out, "onclick")
	assert.Contains(t, out, "<script>")
	assert.NotEqual(t, Clean(raw), out)

	safe := `<p class="a">hi</p>`
	assert.Equal(t, Clean(safe), Normalize(safe))
}
