package content

// Book is a row of the books table.
type Book struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Chapter is a chapter listing entry.
type Chapter struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id,omitempty"`
	Title      string  `json:"title"`
	SortOrder  int     `json:"sort_order"`
	IsFree     bool    `json:"is_free"`
	ReleasedAt *string `json:"released_at,omitempty"`
}

// ChapterContent is a chapter with its body. Locked bodies are withheld by
// the backend's row-level policy, so Content is empty for them.
type ChapterContent struct {
	Chapter
	Content string `json:"content"`
}

// Subscription is the signed-in user's subscription state.
type Subscription struct {
	Active  bool    `json:"active"`
	EndDate *string `json:"endDate"`
	Status  *string `json:"status"`
}

// Profile is a row of the profiles table.
type Profile map[string]any

// Gate is the access decision for a chapter.
type Gate string

const (
	GateFree       Gate = "free"
	GateUnlocked   Gate = "unlocked"
	GateLocked     Gate = "locked"
	GateUnreleased Gate = "unreleased"
)

// rows as stored; the API shapes above are derived from these.
type bookRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type chapterRow struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	Title      string  `json:"title"`
	ChapterNum int     `json:"chapter_num"`
	Free       bool    `json:"free"`
	ReleasedAt *string `json:"released_at"`
	Content    *string `json:"content"`
}

type subscriptionRow struct {
	ID      any     `json:"id,omitempty"`
	Status  string  `json:"status"`
	EndDate *string `json:"end_date"`
}
