package auth

import (
	"sync"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// EventType names an auth state change.
type EventType string

const (
	SignedIn    EventType = "SIGNED_IN"
	SignedOut   EventType = "SIGNED_OUT"
	UserUpdated EventType = "USER_UPDATED"
)

// Event is published whenever a browser session's auth state changes.
type Event struct {
	Type      EventType
	SessionID string
	Session   *supabase.Session
}

// Events fans auth events out to the live tabs of each browser session.
type Events struct {
	mu   sync.Mutex
	subs map[string]map[int]chan Event
	next int
}

// NewEvents returns an empty hub.
func NewEvents() *Events {
	return &Events{subs: make(map[string]map[int]chan Event)}
}

// Subscribe returns a channel of events for sid and a func that unsubscribes.
func (e *Events) Subscribe(sid string) (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Event, 8)
	id := e.next
	e.next++
	if e.subs[sid] == nil {
		e.subs[sid] = make(map[int]chan Event)
	}
	e.subs[sid][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if subs, ok := e.subs[sid]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
				if len(subs) == 0 {
					delete(e.subs, sid)
				}
			}
		})
	}
}

// Publish delivers ev to every subscriber of ev.SessionID. Subscribers that
// are not keeping up miss the event rather than blocking the publisher.
func (e *Events) Publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Reset closes and drops every subscription.
func (e *Events) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, subs := range e.subs {
		for _, ch := range subs {
			close(ch)
		}
	}
	e.subs = make(map[string]map[int]chan Event)
}
