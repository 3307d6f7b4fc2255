package screens

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxFragmentBytes caps how much of a fragment response is read.
const maxFragmentBytes = 2 << 20

// Fetcher retrieves the raw markup of a screen fragment. Implementations are
// only called with identifiers that passed ValidID.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// StatusError reports a non-2xx fragment response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Status)
}

// HTTPFetcher loads fragments from <BaseURL>/<id>.html.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher returns a fetcher with a bounded client timeout.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// URL returns the fragment URL for id.
func (f *HTTPFetcher) URL(id string) string {
	return f.BaseURL + "/" + id + ".html"
}

func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (string, error) {
	url := f.URL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// FSFetcher loads fragments named <id>.html from a file system.
type FSFetcher struct {
	FS fs.FS
}

func (f *FSFetcher) Fetch(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(f.FS, id+".html")
	if err != nil {
		return "", fmt.Errorf("reading screen %s: %w", id, err)
	}
	return string(data), nil
}

// NewFetcher picks an HTTPFetcher for http(s) bases and an FSFetcher rooted
// at the directory otherwise.
func NewFetcher(base string) Fetcher {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPFetcher(base)
	}
	return &FSFetcher{FS: os.DirFS(base)}
}
