// Package dom is a small in-memory document used to render screens on the
// server. A Page owns a parsed shell document plus an address bar hash and
// exposes the handful of element operations the router and the screen
// initializers need.
package dom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// ErrNoElement is returned when an element id is not in the document.
var ErrNoElement = errors.New("element not found")

// Well-known element ids in the shell.
const (
	AnnouncerID = "routeAnnouncer"
	WarningID   = "screenWarning"
	NoticeID    = "backendNotice"
)

// Page is a parsed document. All methods are safe for concurrent use.
type Page struct {
	mu        sync.Mutex
	doc       *html.Node
	hash      string
	listeners []func(hash string)
}

// Parse builds a Page from a full HTML document.
func Parse(shell string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(shell))
	if err != nil {
		return nil, fmt.Errorf("parsing shell: %w", err)
	}
	return &Page{doc: doc}, nil
}

// MustParse is Parse for compiled-in shells.
func MustParse(shell string) *Page {
	p, err := Parse(shell)
	if err != nil {
		panic(err)
	}
	return p
}

// HasElement reports whether an element with the id exists.
func (p *Page) HasElement(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byID(id) != nil
}

// SetText replaces the element's children with a single text node.
func (p *Page) SetText(id, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	clearChildren(el)
	el.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// Text returns the concatenated text content of the element.
func (p *Page) Text(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(el)
	return sb.String(), nil
}

// SetInnerHTML parses markup in the context of the element and replaces its
// children. Callers are responsible for sanitizing markup first.
func (p *Page) SetInnerHTML(id, markup string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), el)
	if err != nil {
		return fmt.Errorf("parsing markup for #%s: %w", id, err)
	}
	clearChildren(el)
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// InnerHTML renders the element's children.
func (p *Page) InnerHTML(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return "", fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	var buf bytes.Buffer
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering #%s: %w", id, err)
		}
	}
	return buf.String(), nil
}

// SetAttr sets an attribute on the element.
func (p *Page) SetAttr(id, key, val string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	setAttr(el, key, val)
	return nil
}

// Attr returns an attribute of the element.
func (p *Page) Attr(id, key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return "", false
	}
	return attr(el, key)
}

// SetHidden toggles the hidden attribute.
func (p *Page) SetHidden(id string, hidden bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	if hidden {
		setAttr(el, "hidden", "")
	} else {
		removeAttr(el, "hidden")
	}
	return nil
}

// AddClass adds class to the element if it is not already present.
func (p *Page) AddClass(id, class string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	if el == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, id)
	}
	addClass(el, class)
	return nil
}

// HasClass reports whether the element carries class.
func (p *Page) HasClass(id, class string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := p.byID(id)
	return el != nil && slices.Contains(classes(el), class)
}

// SetActiveNav marks the [data-page] elements whose value equals pageID with
// class "active" and aria-current="page", and clears both everywhere else.
func (p *Page) SetActiveNav(pageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	walk(p.doc, func(n *html.Node) {
		v, ok := attr(n, "data-page")
		if !ok {
			return
		}
		if v == pageID {
			addClass(n, "active")
			setAttr(n, "aria-current", "page")
		} else {
			removeClass(n, "active")
			removeAttr(n, "aria-current")
		}
	})
}

// ActiveNav returns the data-page values of the nav elements currently
// marked active.
func (p *Page) ActiveNav() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	walk(p.doc, func(n *html.Node) {
		v, ok := attr(n, "data-page")
		if !ok {
			return
		}
		if cur, _ := attr(n, "aria-current"); cur == "page" && slices.Contains(classes(n), "active") {
			out = append(out, v)
		}
	})
	return out
}

// Hash returns the address bar fragment including the leading '#', or "".
func (p *Page) Hash() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hash
}

// SetHash updates the address bar fragment. Listeners run only when the value
// actually changes, after the page lock is released. It reports whether the
// hash changed.
func (p *Page) SetHash(h string) bool {
	h = strings.TrimPrefix(h, "#")
	if h != "" {
		h = "#" + h
	}

	p.mu.Lock()
	if p.hash == h {
		p.mu.Unlock()
		return false
	}
	p.hash = h
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(h)
	}
	return true
}

// OnHashChange registers fn to be called with the new hash after each change.
func (p *Page) OnHashChange(fn func(hash string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Announce writes msg into the live region, if the shell has one.
func (p *Page) Announce(msg string) {
	_ = p.SetText(AnnouncerID, msg)
}

// InsertBanner places a warning banner directly before the element with id
// beforeID, replacing a previous banner.
func (p *Page) InsertBanner(beforeID, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	anchor := p.byID(beforeID)
	if anchor == nil || anchor.Parent == nil {
		return fmt.Errorf("%w: #%s", ErrNoElement, beforeID)
	}
	if old := p.byID(WarningID); old != nil && old.Parent != nil {
		old.Parent.RemoveChild(old)
	}
	banner := &html.Node{
		Type: html.ElementNode,
		Data: "div",
		Attr: []html.Attribute{
			{Key: "id", Val: WarningID},
			{Key: "class", Val: "screen-warning"},
			{Key: "role", Val: "alert"},
		},
	}
	banner.AppendChild(&html.Node{Type: html.TextNode, Data: msg})
	anchor.Parent.InsertBefore(banner, anchor)
	return nil
}

// ClearBanner removes the warning banner, if any.
func (p *Page) ClearBanner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.byID(WarningID); old != nil && old.Parent != nil {
		old.Parent.RemoveChild(old)
	}
}

// Banner returns the current warning banner text, or "".
func (p *Page) Banner() string {
	text, err := p.Text(WarningID)
	if err != nil {
		return ""
	}
	return text
}

// Render serializes the whole document.
func (p *Page) Render() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, p.doc); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return buf.String(), nil
}

// WaitForElement polls until the element exists, the timeout elapses, or ctx
// is done.
func (p *Page) WaitForElement(ctx context.Context, id string, timeout time.Duration) error {
	if p.HasElement(id) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for #%s: %w", id, ctx.Err())
		case <-ticker.C:
			if p.HasElement(id) {
				return nil
			}
		}
	}
}

func (p *Page) byID(id string) *html.Node {
	var found *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(p.doc)
	return found
}
