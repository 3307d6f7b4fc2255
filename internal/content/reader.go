package content

import "context"

// Read looks up a chapter for the reader and renders its body when the gate
// allows. Locked and unreleased chapters come back without a body.
func (s *Store) Read(ctx context.Context, chapterID int64, userID string) (*ChapterView, error) {
	meta, err := s.ChapterMeta(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	subscribed := !meta.IsFree && userID != "" && s.HasActiveSubscription(ctx, userID)
	view := &ChapterView{Chapter: *meta, Gate: GateFor(*meta, subscribed, s.now())}
	if !view.Gate.Readable() {
		return view, nil
	}

	cc, err := s.ChapterContent(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	html, err := RenderMarkdown(cc.Content)
	if err != nil {
		return nil, err
	}
	view.Chapter = cc.Chapter
	view.HTML = html
	return view, nil
}
