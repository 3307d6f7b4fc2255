package views

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/content"
	"github.com/ziadkadry99/storyshelf/internal/nav"
)

// Reader texts.
const (
	NoBooksText       = "No books yet."
	ChooseChapterText = "Choose a chapter from the library."
	UnreleasedText    = "This chapter is not released yet."
	LockedChapterText = "Subscribe to read this chapter."
)

const listTemplates = `
{{define "books"}}{{range .}}<li><a href="/p/library?book={{.ID}}" data-book="{{.ID}}">{{.Title}}</a></li>
{{end}}{{end}}
{{define "chapters"}}{{range .}}<li><a href="/p/reader?chapter={{.ID}}" data-chapter="{{.ID}}">{{.Title}}</a>{{if .IsFree}} <span class="pill">Free</span>{{end}}</li>
{{end}}{{end}}
{{define "shelf"}}{{range .}}<li><a href="/p/flipbook?book={{.}}" data-book="{{.}}">{{.}}</a></li>
{{end}}{{end}}
{{define "options"}}<option value="all">All</option>{{range .}}<option value="{{.}}">{{.}}</option>{{end}}{{end}}`

var lists = template.Must(template.New("lists").Parse(listTemplates))

func renderList(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := lists.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

func (v *views) library(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	if !page.HasElement("bookList") {
		return nil
	}
	store := storeFor(auth.ScopeFrom(ctx))
	books, err := store.Books(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return page.SetText("bookList", NoBooksText)
	}
	markup, err := renderList("books", books)
	if err != nil {
		return err
	}
	if err := page.SetInnerHTML("bookList", markup); err != nil {
		return err
	}

	bookID, ok := queryInt(ctx, "book")
	if !ok || !page.HasElement("chapterList") {
		return nil
	}
	chapters, err := store.Chapters(ctx, bookID)
	if err != nil {
		return err
	}
	markup, err = renderList("chapters", chapters)
	if err != nil {
		return err
	}
	return page.SetInnerHTML("chapterList", markup)
}

func (v *views) reader(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	if !page.HasElement("chapterContent") {
		return nil
	}
	chapterID, ok := queryInt(ctx, "chapter")
	if !ok {
		return page.SetText("chapterContent", ChooseChapterText)
	}

	scope := auth.ScopeFrom(ctx)
	view, err := storeFor(scope).Read(ctx, chapterID, userID(scope))
	if err != nil {
		return err
	}
	if page.HasElement("chapterTitle") {
		if err := page.SetText("chapterTitle", view.Chapter.Title); err != nil {
			return err
		}
	}
	if page.HasElement("lockedNotice") {
		if err := page.SetHidden("lockedNotice", view.Gate != content.GateLocked); err != nil {
			return err
		}
	}

	switch view.Gate {
	case content.GateLocked:
		return page.SetText("chapterContent", LockedChapterText)
	case content.GateUnreleased:
		return page.SetText("chapterContent", UnreleasedText)
	default:
		return page.SetInnerHTML("chapterContent", view.HTML)
	}
}
