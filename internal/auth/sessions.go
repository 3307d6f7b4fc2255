package auth

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// NewSessionID returns a fresh browser session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether sid looks like an id from NewSessionID.
func ValidSessionID(sid string) bool {
	_, err := uuid.Parse(sid)
	return err == nil
}

type entry struct {
	mu      sync.Mutex
	session *supabase.Session
	tokens  oauth2.TokenSource
}

// SessionStore keeps backend sessions in memory, keyed by browser session id.
// Nothing is persisted; a restart signs everyone out.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]*entry)}
}

func (s *SessionStore) get(sid string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[sid]
}

// Get returns the stored session for sid, or nil.
func (s *SessionStore) Get(sid string) *supabase.Session {
	e := s.get(sid)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (s *SessionStore) put(sid string, sess *supabase.Session, ts oauth2.TokenSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = &entry{session: sess, tokens: ts}
}

func (s *SessionStore) update(sid string, sess *supabase.Session) {
	e := s.get(sid)
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if sess.User == nil && e.session != nil {
		sess.User = e.session.User
	}
	e.session = sess
}

// Delete forgets sid.
func (s *SessionStore) Delete(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
}

// Len returns the number of signed-in browser sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset forgets every session.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}
