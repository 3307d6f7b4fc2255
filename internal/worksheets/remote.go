package worksheets

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Messages returned to the page.
const (
	MsgFileNotFound  = "Worksheet file not found"
	MsgNotAuthorized = "Not authorized to access this file"
)

var (
	ErrFileNotFound  = errors.New(MsgFileNotFound)
	ErrNotAuthorized = errors.New(MsgNotAuthorized)
)

// Defaults for the backend table and bucket.
const (
	DefaultTable            = "worksheets"
	DefaultBucket           = "worksheets"
	DefaultSignedURLExpires = 600
)

var protectedRoles = []string{"admin", "parent", "subscriber"}

// StorageConfig names where worksheet rows and files live.
type StorageConfig struct {
	Table            string
	Bucket           string
	SignedURLExpires int
}

func (c StorageConfig) withDefaults() StorageConfig {
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.SignedURLExpires <= 0 {
		c.SignedURLExpires = DefaultSignedURLExpires
	}
	return c
}

// Metadata is a worksheet row in the backend table.
type Metadata struct {
	ID          any     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	FilePath    string  `json:"file_path"`
	IsProtected bool    `json:"is_protected"`
	IsAnswerKey bool    `json:"is_answer_key"`
	GradeLevel  any     `json:"grade_level"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// Remote reads worksheet metadata and file links through one backend client.
// Row-level policies in the backend remain the real gate; the filters here
// keep the listing honest for callers without access.
type Remote struct {
	db  *supabase.Client
	cfg StorageConfig
}

// NewRemote returns a Remote over db.
func NewRemote(db *supabase.Client, cfg StorageConfig) *Remote {
	return &Remote{db: db, cfg: cfg.withDefaults()}
}

// HasProtectedAccess reports whether user may see protected worksheets and
// answer keys.
func HasProtectedAccess(user *supabase.User) bool {
	if user == nil {
		return false
	}
	role := metaString(user.AppMetadata, "role")
	if role == "" {
		role = metaString(user.UserMetadata, "role")
	}
	if role == "" {
		role = metaString(user.UserMetadata, "account_type")
	}
	if slices.Contains(protectedRoles, role) {
		return true
	}
	return metaTrue(user.AppMetadata, "is_subscriber") ||
		metaTrue(user.UserMetadata, "is_subscriber") ||
		metaString(user.UserMetadata, "subscription") == "active"
}

func metaString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func metaTrue(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// List returns the worksheet rows user may see, newest first. Answer keys
// are included only when asked for and user has protected access.
func (r *Remote) List(ctx context.Context, user *supabase.User, includeAnswerKeys bool) ([]Metadata, error) {
	if r.db == nil {
		return nil, supabase.ErrNotConfigured
	}
	canAccess := HasProtectedAccess(user)
	q := r.db.From(r.cfg.Table).
		Select("id,title,description,file_path,is_protected,is_answer_key,grade_level,created_at,updated_at").
		Order("created_at", false)
	if !canAccess {
		q = q.Eq("is_protected", "false")
	}
	if !includeAnswerKeys || !canAccess {
		q = q.Eq("is_answer_key", "false")
	}

	rows := []Metadata{}
	if err := q.Execute(ctx, &rows); err != nil {
		return nil, fmt.Errorf("fetching worksheet metadata: %w", err)
	}
	return rows, nil
}

// FileURL returns a link to a worksheet's file: signed and short-lived for
// protected files, public otherwise.
func (r *Remote) FileURL(ctx context.Context, user *supabase.User, id string) (string, error) {
	if r.db == nil {
		return "", supabase.ErrNotConfigured
	}
	var rows []Metadata
	err := r.db.From(r.cfg.Table).
		Select("id,file_path,is_protected,is_answer_key").
		Eq("id", id).
		Limit(1).
		Execute(ctx, &rows)
	if err != nil {
		return "", fmt.Errorf("looking up worksheet %s: %w", id, err)
	}
	if len(rows) == 0 || rows[0].FilePath == "" {
		return "", ErrFileNotFound
	}

	ws := rows[0]
	if !ws.IsProtected && !ws.IsAnswerKey {
		return r.db.PublicURL(r.cfg.Bucket, ws.FilePath), nil
	}
	if !HasProtectedAccess(user) {
		return "", ErrNotAuthorized
	}
	u, err := r.db.SignedURL(ctx, r.cfg.Bucket, ws.FilePath, r.cfg.SignedURLExpires)
	if err != nil {
		return "", fmt.Errorf("signing worksheet file: %w", err)
	}
	return u, nil
}
