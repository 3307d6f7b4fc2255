// Package sanitize strips executable markup from HTML fragments before they
// are inserted into a page.
package sanitize

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// removedElements are dropped together with everything inside them.
var removedElements = map[string]bool{
	"script": true,
	"iframe": true,
}

// eventHandlerAttrs is the deny-list of inline handler attributes.
var eventHandlerAttrs = map[string]bool{
	"onclick":     true,
	"onerror":     true,
	"onload":      true,
	"onmouseover": true,
	"onfocus":     true,
	"onblur":      true,
	"onchange":    true,
	"onsubmit":    true,
	"onreset":     true,
	"onselect":    true,
	"onunload":    true,
	"onabort":     true,
	"onkeydown":   true,
	"onkeypress":  true,
	"onkeyup":     true,
	"onmousedown": true,
	"onmousemove": true,
	"onmouseout":  true,
	"onmouseup":   true,
}

// urlAttrs are checked for a javascript: scheme.
var urlAttrs = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
}

// Clean parses raw as a body fragment, removes script and iframe elements,
// inline event handlers and javascript: URLs, and renders the result.
// If the fragment cannot be parsed or rendered the input is returned
// HTML-escaped, never as markup.
func Clean(raw string) string {
	return render(raw, true)
}

// Normalize parses and re-renders raw without removing anything. Comparing
// it with Clean tells whether sanitizing changes a fragment.
func Normalize(raw string) string {
	return render(raw, false)
}

func render(raw string, strip bool) string {
	if raw == "" {
		return ""
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), body)
	if err != nil {
		return Escape(raw)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	if strip {
		Tree(root)
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return Escape(raw)
		}
	}
	return buf.String()
}

// Tree sanitizes the children of n in place. The node itself is kept.
func Tree(n *html.Node) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && removedElements[strings.ToLower(c.Data)] {
				doomed = append(doomed, c)
				continue
			}
			if c.Type == html.ElementNode {
				c.Attr = cleanAttrs(c.Attr)
			}
			walk(c)
		}
	}
	walk(n)

	for _, d := range doomed {
		if d.Parent != nil {
			d.Parent.RemoveChild(d)
		}
	}
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if eventHandlerAttrs[key] {
			continue
		}
		if urlAttrs[key] && IsJavaScriptURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// IsJavaScriptURL reports whether v uses the javascript: scheme, ignoring
// case and leading whitespace.
func IsJavaScriptURL(v string) bool {
	v = strings.TrimLeft(v, " \t\n\r\f\x00")
	return len(v) >= len("javascript:") && strings.EqualFold(v[:len("javascript:")], "javascript:")
}

// Escape returns s with HTML special characters escaped, for rendering as text.
func Escape(s string) string {
	return html.EscapeString(s)
}
