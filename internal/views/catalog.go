package views

import (
	"context"
	"strconv"

	"github.com/ziadkadry99/storyshelf/internal/dom"
	"github.com/ziadkadry99/storyshelf/internal/flipbook"
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/worksheets"
)

func (v *views) worksheetCatalog(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	if !page.HasElement("worksheetList") {
		return nil
	}

	opts := worksheets.FilterOptions(worksheets.Catalog)
	for id, values := range map[string][]string{
		"chapterSelect": opts.Chapters,
		"ageSelect":     opts.Ages,
		"topicSelect":   opts.Topics,
	} {
		if !page.HasElement(id) {
			continue
		}
		markup, err := renderList("options", values)
		if err != nil {
			return err
		}
		if err := page.SetInnerHTML(id, markup); err != nil {
			return err
		}
	}

	list := worksheets.Apply(worksheets.Catalog, worksheets.FilterFromQuery(QueryFrom(ctx)))
	markup, err := worksheets.RenderCards(list)
	if err != nil {
		return err
	}
	if err := page.SetInnerHTML("worksheetList", markup); err != nil {
		return err
	}
	if page.HasElement("emptyState") {
		if err := page.SetHidden("emptyState", len(list) > 0); err != nil {
			return err
		}
	}

	stats := worksheets.Summarize(list)
	for id, text := range map[string]string{
		"statCount":    strconv.Itoa(stats.Count),
		"statSubjects": strconv.Itoa(stats.Subjects),
		"statAvgTime":  stats.AvgLabel(),
	} {
		if page.HasElement(id) {
			if err := page.SetText(id, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// flipbookViewer lists the configured books and opens the one named by ?book=.
// Locked or unknown books send the visitor home.
func (v *views) flipbookViewer(ctx context.Context, r *nav.Router) error {
	page := r.Page()
	q := QueryFrom(ctx)

	title := q.Get("book")
	if title == "" {
		return v.renderShelf(page)
	}
	book, ok := v.Shelf.Open(title)
	if !ok {
		v.Logger.Info("flip-book not available", "book", title)
		r.Navigate(ctx, v.Home)
		return nil
	}
	if err := v.renderShelf(page); err != nil {
		return err
	}
	if page.HasElement("flipbookViewer") {
		if err := page.SetAttr("flipbookViewer", "data-src", book.URL); err != nil {
			return err
		}
	}
	if page.HasElement("flipbookTitle") {
		if err := page.SetText("flipbookTitle", book.Title); err != nil {
			return err
		}
	}

	pageNum, _ := strconv.Atoi(q.Get("page"))
	total, err := strconv.Atoi(q.Get("total"))
	if err != nil || !page.HasElement("pageIndicator") {
		return nil
	}
	return page.SetText("pageIndicator", flipbook.At(pageNum, total).Label)
}

func (v *views) renderShelf(page *dom.Page) error {
	if !page.HasElement("flipbookBooks") {
		return nil
	}
	var titles []string
	for _, b := range v.Shelf {
		if !b.Locked {
			titles = append(titles, b.Title)
		}
	}
	markup, err := renderList("shelf", titles)
	if err != nil {
		return err
	}
	return page.SetInnerHTML("flipbookBooks", markup)
}
