// Package worksheets serves the worksheet catalog: filtering, sorting and
// summary stats, plus signed or public links to worksheet files kept in
// backend storage.
package worksheets

import (
	"cmp"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// All disables a filter.
const All = "all"

// Sort orders.
const (
	SortGradeAsc  = "grade-asc"
	SortGradeDesc = "grade-desc"
	SortTitle     = "title"
)

// Duration buckets in minutes.
const (
	DurationUnder25 = "under-25"
	Duration25to35  = "25-35"
	DurationOver35  = "over-35"
)

// Filter is the state of the catalog's filter bar. Empty fields mean All.
type Filter struct {
	Subject  string `json:"subject"`
	Grade    string `json:"grade"`
	Chapter  string `json:"chapter"`
	AgeRange string `json:"ageRange"`
	Topic    string `json:"topic"`
	Duration string `json:"duration"`
	Access   string `json:"access"`
	Sort     string `json:"sort"`
	Search   string `json:"search"`
}

// FilterFromQuery reads a Filter from query parameters named like the JSON
// fields.
func FilterFromQuery(q url.Values) Filter {
	return Filter{
		Subject:  q.Get("subject"),
		Grade:    q.Get("grade"),
		Chapter:  q.Get("chapter"),
		AgeRange: q.Get("ageRange"),
		Topic:    q.Get("topic"),
		Duration: q.Get("duration"),
		Access:   q.Get("access"),
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
	}
}

func unset(v string) bool { return v == "" || v == All }

// Match reports whether w passes every filter.
func (f Filter) Match(w Worksheet) bool {
	if !unset(f.Subject) && w.Subject != f.Subject {
		return false
	}
	if !unset(f.Grade) && strconv.Itoa(w.Grade) != f.Grade {
		return false
	}
	if !unset(f.Chapter) && w.Chapter != f.Chapter {
		return false
	}
	if !unset(f.AgeRange) && w.AgeRange != f.AgeRange {
		return false
	}
	if !unset(f.Topic) && w.Topic != f.Topic {
		return false
	}
	if !unset(f.Access) && w.Access != f.Access {
		return false
	}
	switch f.Duration {
	case DurationUnder25:
		if w.Duration >= 25 {
			return false
		}
	case Duration25to35:
		if w.Duration < 25 || w.Duration > 35 {
			return false
		}
	case DurationOver35:
		if w.Duration <= 35 {
			return false
		}
	}
	if f.Search != "" {
		fields := append([]string{w.Title, w.Description, w.Format}, w.Skills...)
		fields = append(fields, w.Subject)
		haystack := strings.ToLower(strings.Join(fields, " "))
		if !strings.Contains(haystack, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

// Apply returns the matching worksheets in the filter's sort order. list is
// not modified.
func Apply(list []Worksheet, f Filter) []Worksheet {
	out := make([]Worksheet, 0, len(list))
	for _, w := range list {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, comparer(f.Sort))
	return out
}

func byTitle(a, b Worksheet) int {
	if c := cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return cmp.Compare(a.Title, b.Title)
}

func comparer(sort string) func(a, b Worksheet) int {
	switch sort {
	case SortGradeDesc:
		return func(a, b Worksheet) int {
			if c := cmp.Compare(b.Grade, a.Grade); c != 0 {
				return c
			}
			return byTitle(a, b)
		}
	case SortTitle:
		return byTitle
	default:
		return func(a, b Worksheet) int {
			if c := cmp.Compare(a.Grade, b.Grade); c != 0 {
				return c
			}
			return byTitle(a, b)
		}
	}
}

// Stats summarizes a filtered list.
type Stats struct {
	Count       int `json:"count"`
	Subjects    int `json:"subjects"`
	AvgDuration int `json:"avgDuration"`
}

// Summarize computes Stats. The average is rounded to whole minutes.
func Summarize(list []Worksheet) Stats {
	if len(list) == 0 {
		return Stats{}
	}
	subjects := map[string]bool{}
	total := 0
	for _, w := range list {
		subjects[w.Subject] = true
		total += w.Duration
	}
	return Stats{
		Count:       len(list),
		Subjects:    len(subjects),
		AvgDuration: int(math.Round(float64(total) / float64(len(list)))),
	}
}

// Options are the values offered by the dynamic filter selects.
type Options struct {
	Subjects []string `json:"subjects"`
	Grades   []int    `json:"grades"`
	Chapters []string `json:"chapters"`
	Ages     []string `json:"ages"`
	Topics   []string `json:"topics"`
}

// FilterOptions returns the sorted distinct values of list.
func FilterOptions(list []Worksheet) Options {
	var o Options
	for _, w := range list {
		o.Subjects = append(o.Subjects, w.Subject)
		o.Grades = append(o.Grades, w.Grade)
		o.Chapters = append(o.Chapters, w.Chapter)
		o.Ages = append(o.Ages, w.AgeRange)
		o.Topics = append(o.Topics, w.Topic)
	}
	return Options{
		Subjects: distinct(o.Subjects),
		Grades:   distinct(o.Grades),
		Chapters: distinct(o.Chapters),
		Ages:     distinct(o.Ages),
		Topics:   distinct(o.Topics),
	}
}

func distinct[T cmp.Ordered](vs []T) []T {
	slices.Sort(vs)
	return slices.Compact(vs)
}
