// Package screens loads named HTML fragments, sanitizes them and keeps them
// in an in-memory cache.
package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/storyshelf/internal/sanitize"
)

// ErrorFragment replaces a screen that could not be fetched.
const ErrorFragment = `<div class="content-section"><p>Error loading page. Please try again.</p></div>`

// Loader fetches, sanitizes and caches screen fragments. A Loader is shared
// by every router in the process.
type Loader struct {
	fetcher      Fetcher
	cache        *Cache
	cacheEnabled bool
	logger       *log.Logger
}

// NewLoader creates a loader. With cacheEnabled false every Load fetches.
func NewLoader(fetcher Fetcher, cacheEnabled bool, logger *log.Logger) *Loader {
	return &Loader{
		fetcher:      fetcher,
		cache:        NewCache(),
		cacheEnabled: cacheEnabled,
		logger:       logger,
	}
}

// Load returns the sanitized markup for id. It fails only for identifiers
// outside the grammar; fetch failures yield ErrorFragment and are not cached.
func (l *Loader) Load(ctx context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScreen, id)
	}

	if l.cacheEnabled {
		if html, ok := l.cache.Get(id); ok {
			return html, nil
		}
	}

	raw, err := l.fetcher.Fetch(ctx, id)
	if err != nil {
		l.logger.Error("loading screen", "screen", id, "err", err)
		return ErrorFragment, nil
	}

	clean := sanitize.Clean(raw)
	if l.cacheEnabled {
		l.cache.Put(id, clean)
	}
	return clean, nil
}

// Cached reports whether id currently has a cache entry.
func (l *Loader) Cached(id string) bool {
	_, ok := l.cache.Get(id)
	return ok
}

// Reset clears the screen cache.
func (l *Loader) Reset() {
	l.cache.Reset()
}

// Warm loads every id with at most concurrency fetches in flight. Invalid
// identifiers abort the warm-up; fetch failures only leave the entry empty.
func (l *Loader) Warm(ctx context.Context, ids []string, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 4
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := l.Load(ctx, id)
			return err
		})
	}
	return g.Wait()
}
