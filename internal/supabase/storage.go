package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// objects returns a storage client authorized with token.
func (c *Client) objects(token string) *storage.Client {
	return storage.NewClient(c.baseURL+"/storage/v1", token, map[string]string{"apikey": c.anonKey})
}

// PublicURL returns the public object URL. No request is made.
func (c *Client) PublicURL(bucket, path string) string {
	return c.objects(c.anonKey).GetPublicUrl(url.PathEscape(bucket), escapeObjectPath(path)).SignedURL
}

// SignedURL asks storage for a time-limited URL to a private object.
func (c *Client) SignedURL(ctx context.Context, bucket, path string, expiresIn int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := c.accessToken()
	if err != nil {
		return "", err
	}
	res, err := c.objects(tok).CreateSignedUrl(url.PathEscape(bucket), escapeObjectPath(path), expiresIn)
	if err != nil {
		return "", fmt.Errorf("signing %s/%s: %w", bucket, path, storageError(err))
	}
	if res.SignedURL == c.baseURL+"/storage/v1" {
		return "", fmt.Errorf("signing %s/%s: empty response", bucket, path)
	}
	return res.SignedURL, nil
}

func escapeObjectPath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
