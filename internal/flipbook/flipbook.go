// Package flipbook pages through PDF books two pages at a time.
package flipbook

import (
	"fmt"
	"strings"
)

// Book is a PDF offered in the flip-book viewer.
type Book struct {
	Title  string `json:"title" yaml:"title" koanf:"title"`
	URL    string `json:"url" yaml:"url" koanf:"url"`
	Locked bool   `json:"locked" yaml:"locked" koanf:"locked"`
}

// Spread is the pair of pages on screen.
type Spread struct {
	Left  int    `json:"left"`
	Right int    `json:"right,omitempty"`
	Total int    `json:"total"`
	Label string `json:"label"`
	Prev  int    `json:"prev,omitempty"`
	Next  int    `json:"next,omitempty"`
}

// HasPrev reports whether an earlier spread exists.
func (s Spread) HasPrev() bool { return s.Prev > 0 }

// HasNext reports whether a later spread exists.
func (s Spread) HasNext() bool { return s.Next > 0 }

// At returns the spread containing page in a book of total pages. Spreads
// start on odd pages; page is clamped into range. A book with no pages has
// an empty spread.
func At(page, total int) Spread {
	if total <= 0 {
		return Spread{}
	}
	page = min(max(page, 1), total)
	left := page - (page-1)%2

	s := Spread{Left: left, Total: total}
	if left+1 <= total {
		s.Right = left + 1
		s.Label = fmt.Sprintf("Page %d-%d", left, s.Right)
	} else {
		s.Label = fmt.Sprintf("Page %d", left)
	}
	if left > 1 {
		s.Prev = left - 2
	}
	if left+2 <= total {
		s.Next = left + 2
	}
	return s
}

// Shelf is the configured list of books.
type Shelf []Book

// Find returns the book with the given title, ignoring case.
func (sh Shelf) Find(title string) (Book, bool) {
	for _, b := range sh {
		if strings.EqualFold(b.Title, title) {
			return b, true
		}
	}
	return Book{}, false
}

// Open returns the book a visitor may read. Locked or unknown books are not
// opened; the viewer sends the visitor home instead.
func (sh Shelf) Open(title string) (Book, bool) {
	b, ok := sh.Find(title)
	if !ok || b.Locked || b.URL == "" {
		return Book{}, false
	}
	return b, true
}
