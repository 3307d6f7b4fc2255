// Package content reads books, chapters, subscriptions and profiles from the
// backend. Access control lives in the backend's row-level policies; this
// package only shapes rows and decides how a chapter is presented.
package content

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotSignedIn   = errors.New("sign in first")
	ErrNotConfigured = supabase.ErrNotConfigured
)

// Store reads content through one backend client. A nil client behaves like
// an empty backend.
type Store struct {
	db  *supabase.Client
	now func() time.Time
}

// NewStore returns a store over db.
func NewStore(db *supabase.Client) *Store {
	return &Store{db: db, now: time.Now}
}

// Books lists books, newest first.
func (s *Store) Books(ctx context.Context) ([]Book, error) {
	if s.db == nil {
		return []Book{}, nil
	}
	var rows []bookRow
	err := s.db.From("books").Select("id,name,created_at").Order("created_at", false).Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching books: %w", err)
	}
	books := make([]Book, 0, len(rows))
	for _, r := range rows {
		title := r.Name
		if title == "" {
			title = "Untitled"
		}
		books = append(books, Book{ID: r.ID, Name: r.Name, Title: title, CreatedAt: r.CreatedAt})
	}
	return books, nil
}

// Chapters lists the chapters of a book in reading order.
func (s *Store) Chapters(ctx context.Context, bookID int64) ([]Chapter, error) {
	if s.db == nil {
		return []Chapter{}, nil
	}
	var rows []chapterRow
	err := s.db.From("chapters").
		Select("id,title,chapter_num,free,released_at").
		Eq("book_id", strconv.FormatInt(bookID, 10)).
		Order("chapter_num", true).
		Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching chapters: %w", err)
	}
	out := make([]Chapter, 0, len(rows))
	for _, r := range rows {
		r.BookID = bookID
		out = append(out, r.chapter())
	}
	return out, nil
}

// ChapterMeta returns the access-relevant fields of a chapter.
func (s *Store) ChapterMeta(ctx context.Context, id int64) (*Chapter, error) {
	row, err := s.chapterRow(ctx, id, "id,book_id,title,chapter_num,free,released_at")
	if err != nil {
		return nil, err
	}
	ch := row.chapter()
	return &ch, nil
}

// ChapterContent returns a chapter with its body.
func (s *Store) ChapterContent(ctx context.Context, id int64) (*ChapterContent, error) {
	row, err := s.chapterRow(ctx, id, "id,title,content,free,book_id,chapter_num,released_at")
	if err != nil {
		return nil, err
	}
	cc := &ChapterContent{Chapter: row.chapter()}
	if row.Content != nil {
		cc.Content = *row.Content
	}
	return cc, nil
}

func (s *Store) chapterRow(ctx context.Context, id int64, cols string) (*chapterRow, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}
	var rows []chapterRow
	err := s.db.From("chapters").Select(cols).Eq("id", strconv.FormatInt(id, 10)).Limit(1).Execute(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching chapter %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

func (r chapterRow) chapter() Chapter {
	title := r.Title
	if title == "" {
		title = fmt.Sprintf("Chapter %d", r.ChapterNum)
	}
	return Chapter{
		ID:         r.ID,
		BookID:     r.BookID,
		Title:      title,
		SortOrder:  r.ChapterNum,
		IsFree:     r.Free,
		ReleasedAt: r.ReleasedAt,
	}
}

// HasActiveSubscription reports whether userID has a live subscription.
func (s *Store) HasActiveSubscription(ctx context.Context, userID string) bool {
	sub, err := s.subscription(ctx, userID)
	return err == nil && sub.Active
}

// SubscriptionStatus returns userID's subscription for display. Any lookup
// failure reads as no subscription.
func (s *Store) SubscriptionStatus(ctx context.Context, userID string) Subscription {
	sub, err := s.subscription(ctx, userID)
	if err != nil {
		return Subscription{}
	}
	return sub
}

func (s *Store) subscription(ctx context.Context, userID string) (Subscription, error) {
	if s.db == nil {
		return Subscription{}, ErrNotConfigured
	}
	if userID == "" {
		return Subscription{}, ErrNotSignedIn
	}
	var rows []subscriptionRow
	err := s.db.From("subscriptions").Select("id,status,end_date").Eq("user_id", userID).Limit(1).Execute(ctx, &rows)
	if err != nil {
		return Subscription{}, fmt.Errorf("fetching subscription: %w", err)
	}
	if len(rows) == 0 {
		return Subscription{}, ErrNotFound
	}
	row := rows[0]
	status := row.Status
	return Subscription{
		Active:  status == "active" && !ended(row.EndDate, s.now()),
		EndDate: row.EndDate,
		Status:  &status,
	}, nil
}

// ActivateSubscription creates or reactivates userID's subscription. A nil
// endDate means no end.
func (s *Store) ActivateSubscription(ctx context.Context, userID string, endDate *time.Time) error {
	if s.db == nil {
		return ErrNotConfigured
	}
	if userID == "" {
		return ErrNotSignedIn
	}
	row := map[string]any{
		"user_id":    userID,
		"status":     "active",
		"end_date":   nil,
		"updated_at": s.now().UTC().Format(time.RFC3339),
	}
	if endDate != nil {
		row["end_date"] = endDate.UTC().Format(time.RFC3339)
	}
	if err := s.db.From("subscriptions").Upsert(ctx, row, "user_id", nil); err != nil {
		return fmt.Errorf("activating subscription: %w", err)
	}
	return nil
}

// Profile returns userID's profile row.
func (s *Store) Profile(ctx context.Context, userID string) (Profile, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	var p Profile
	if err := s.db.From("profiles").Select("*").Eq("user_id", userID).Single(ctx, &p); err != nil {
		if supabase.IsNotFound(err) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return p, nil
}

// UpdateProfile patches userID's profile and returns the new row.
func (s *Store) UpdateProfile(ctx context.Context, userID string, fields Profile) (Profile, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	delete(fields, "user_id")
	var rows []Profile
	if err := s.db.From("profiles").Eq("user_id", userID).Update(ctx, fields, &rows); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	return rows[0], nil
}

// CreateProfile inserts a profile row for userID.
func (s *Store) CreateProfile(ctx context.Context, userID string, fields Profile) (Profile, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}
	row := Profile{}
	for k, v := range fields {
		row[k] = v
	}
	row["user_id"] = userID
	var rows []Profile
	if err := s.db.From("profiles").Insert(ctx, row, &rows); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	if len(rows) == 0 {
		return row, nil
	}
	return rows[0], nil
}

// ended reports whether a subscription end date is at or before now.
// Unparseable dates count as not ended, like a missing one.
func ended(endDate *string, now time.Time) bool {
	if endDate == nil || *endDate == "" {
		return false
	}
	t, ok := parseTime(*endDate)
	return ok && !t.After(now)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
