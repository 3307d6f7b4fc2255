package dom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func clearChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func classes(n *html.Node) []string {
	v, _ := attr(n, "class")
	return strings.Fields(v)
}

func addClass(n *html.Node, class string) {
	cs := classes(n)
	if slices.Contains(cs, class) {
		return
	}
	setAttr(n, "class", strings.Join(append(cs, class), " "))
}

func removeClass(n *html.Node, class string) {
	cs := classes(n)
	if !slices.Contains(cs, class) {
		return
	}
	cs = slices.DeleteFunc(cs, func(c string) bool { return c == class })
	if len(cs) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(cs, " "))
}
