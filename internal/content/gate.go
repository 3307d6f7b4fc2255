package content

import (
	"bytes"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/storyshelf/internal/sanitize"
)

// GateFor decides how a chapter is presented to a reader.
func GateFor(ch Chapter, subscribed bool, now time.Time) Gate {
	if ch.ReleasedAt != nil {
		if t, ok := parseTime(*ch.ReleasedAt); ok && t.After(now) {
			return GateUnreleased
		}
	}
	switch {
	case ch.IsFree:
		return GateFree
	case subscribed:
		return GateUnlocked
	default:
		return GateLocked
	}
}

// Readable reports whether the gate lets the body through.
func (g Gate) Readable() bool {
	return g == GateFree || g == GateUnlocked
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// RenderMarkdown converts a chapter body to HTML. Raw HTML in the source is
// allowed through goldmark and then sanitized like any screen fragment.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return sanitize.Clean(buf.String()), nil
}
