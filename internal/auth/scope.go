package auth

import (
	"context"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Scope is what a request may do against the backend: the client to use
// and, when signed in, the session behind it.
type Scope struct {
	SessionID string
	Client    *supabase.Client
	Session   *supabase.Session
}

// User returns the signed-in user, or nil.
func (s Scope) User() *supabase.User {
	if s.Session == nil {
		return nil
	}
	return s.Session.User
}

// SignedIn reports whether the scope has a user.
func (s Scope) SignedIn() bool { return s.User() != nil }

// Scope resolves sid into a Scope, refreshing its session when needed.
func (b *Bridge) Scope(ctx context.Context, sid string) Scope {
	sess := b.CurrentSession(ctx, sid)
	return Scope{SessionID: sid, Client: b.Client(sid), Session: sess}
}

type (
	scopeKey     struct{}
	scopeFuncKey struct{}
)

// WithScope attaches s to ctx.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithScopeFunc attaches a resolver that is asked for the Scope on every
// lookup. Long-lived connections use it so sign-ins and sign-outs are seen
// by later navigations.
func WithScopeFunc(ctx context.Context, fn func() Scope) context.Context {
	return context.WithValue(ctx, scopeFuncKey{}, fn)
}

// ScopeFrom returns the Scope attached to ctx, or an anonymous one. A
// resolver attached with WithScopeFunc takes precedence.
func ScopeFrom(ctx context.Context) Scope {
	if fn, ok := ctx.Value(scopeFuncKey{}).(func() Scope); ok && fn != nil {
		return fn()
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}
