package screens

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/storyshelf/internal/progress"
	"github.com/ziadkadry99/storyshelf/internal/sanitize"
)

// DefaultPattern matches fragments at the top of a screens directory.
const DefaultPattern = "*.html"

// Problem classifies a finding from Check.
type Problem string

const (
	ProblemInvalidName Problem = "invalid_name"
	ProblemUnsafe      Problem = "unsafe_markup"
	ProblemUnreadable  Problem = "unreadable"
)

// Finding describes one fragment that will not be served as written.
type Finding struct {
	Path    string
	Problem Problem
	Detail  string
}

// Discover returns the screen identifiers of the fragments in fsys matching
// pattern, sorted. Nested files and names outside the identifier grammar are
// skipped since no request can reach them.
func Discover(fsys fs.FS, pattern string) ([]string, error) {
	paths, err := glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range paths {
		if id := idFromPath(p); ValidID(id) && path.Dir(p) == "." {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Check inspects every fragment matching pattern. Fragments that the
// sanitizer would alter, or that can never be requested because of their
// name, are reported.
func Check(fsys fs.FS, pattern string, reporter progress.Reporter) ([]Finding, error) {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	paths, err := glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	reporter.Start(len(paths))
	defer reporter.Finish()

	var findings []Finding
	for i, p := range paths {
		reporter.Update(i+1, p)

		id := idFromPath(p)
		if !ValidID(id) || path.Dir(p) != "." {
			findings = append(findings, Finding{
				Path:    p,
				Problem: ProblemInvalidName,
				Detail:  fmt.Sprintf("%q is not reachable as a screen identifier", id),
			})
			continue
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			findings = append(findings, Finding{Path: p, Problem: ProblemUnreadable, Detail: err.Error()})
			continue
		}

		if raw := string(data); sanitize.Clean(raw) != sanitize.Normalize(raw) {
			findings = append(findings, Finding{
				Path:    p,
				Problem: ProblemUnsafe,
				Detail:  "scripts, iframes, inline handlers or javascript: URLs will be stripped",
			})
		}
	}
	return findings, nil
}

func glob(fsys fs.FS, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	paths, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func idFromPath(p string) string {
	return strings.TrimSuffix(path.Base(p), ".html")
}
