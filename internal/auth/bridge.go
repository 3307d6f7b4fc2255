// Package auth fronts the backend's auth service for the web UI. Every
// operation reports a Result with a message ready for a form; errors never
// cross the Bridge.
package auth

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Messages shown to users.
const (
	MsgNotConfigured        = "Supabase client not initialized"
	MsgSignedIn             = "Login successful!"
	MsgSignInFailed         = "Failed to sign in"
	MsgSignedUp             = "Account created successfully! Please check your email to verify your account."
	MsgSignUpFailed         = "Failed to create account"
	MsgSignedOut            = "Signed out successfully"
	MsgSignOutFailed        = "Failed to sign out"
	MsgMustSignIn           = "You must be signed in to change your password."
	MsgPasswordUpdated      = "Password updated successfully."
	MsgWrongCurrentPassword = "Current password is incorrect."
	MsgWeakNewPassword      = "New password does not meet the password requirements."
	MsgSessionExpired       = "Your session expired. Please re-authenticate."
	MsgPasswordUpdateFailed = "Unable to update your password."
)

// Result is the outcome of a Bridge operation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func fail(msg string) Result { return Result{Message: msg} }

// PasswordChange carries the profile form's password fields.
type PasswordChange struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
}

// Bridge performs auth operations for browser sessions.
type Bridge struct {
	client *supabase.Client
	store  *SessionStore
	events *Events
	logger *log.Logger
}

// NewBridge returns a bridge. client may be nil when no backend is
// configured; every operation then reports MsgNotConfigured.
func NewBridge(client *supabase.Client, store *SessionStore, events *Events, logger *log.Logger) *Bridge {
	return &Bridge{client: client, store: store, events: events, logger: logger}
}

// Configured reports whether a backend is available.
func (b *Bridge) Configured() bool { return b.client != nil }

// Client returns the backend client scoped to sid's session, or the
// anonymous client when sid is not signed in. It is nil when unconfigured.
func (b *Bridge) Client(sid string) *supabase.Client {
	if b.client == nil {
		return nil
	}
	if e := b.store.get(sid); e != nil {
		e.mu.Lock()
		ts := e.tokens
		e.mu.Unlock()
		return b.client.WithTokenSource(ts)
	}
	return b.client
}

// SignIn signs the browser session in with email and password.
func (b *Bridge) SignIn(ctx context.Context, sid, email, password string) Result {
	if b.client == nil {
		return fail(MsgNotConfigured)
	}
	sess, err := b.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return b.providerFailure("sign in", err, MsgSignInFailed)
	}
	b.remember(ctx, sid, sess)
	b.events.Publish(Event{Type: SignedIn, SessionID: sid, Session: sess})
	return Result{Success: true, Message: MsgSignedIn, Data: sess}
}

// SignUp registers a new user. profile becomes the user metadata. When the
// backend returns a session straight away the browser is signed in.
func (b *Bridge) SignUp(ctx context.Context, sid, email, password string, profile map[string]any) Result {
	if b.client == nil {
		return fail(MsgNotConfigured)
	}
	sess, user, err := b.client.SignUp(ctx, email, password, profile)
	if err != nil {
		return b.providerFailure("sign up", err, MsgSignUpFailed)
	}
	if sess != nil {
		b.remember(ctx, sid, sess)
		b.events.Publish(Event{Type: SignedIn, SessionID: sid, Session: sess})
	}
	return Result{
		Success: true,
		Message: MsgSignedUp,
		Data:    map[string]any{"user": user, "session": sess},
	}
}

// SignOut revokes and forgets the browser session.
func (b *Bridge) SignOut(ctx context.Context, sid string) Result {
	if b.client == nil {
		return fail(MsgNotConfigured)
	}
	if b.store.get(sid) != nil {
		if err := b.Client(sid).SignOut(ctx); err != nil {
			var ae *supabase.APIError
			if !errors.As(err, &ae) {
				b.logger.Error("sign out", "err", err)
				return fail(MsgSignOutFailed)
			}
			// An already revoked token still ends the local session.
			b.logger.Warn("sign out rejected by backend", "status", ae.Status, "msg", ae.Message)
		}
	}
	b.store.Delete(sid)
	b.events.Publish(Event{Type: SignedOut, SessionID: sid})
	return Result{Success: true, Message: MsgSignedOut}
}

// CurrentSession returns sid's session, refreshing an expired access token
// first. It returns nil when there is no usable session.
func (b *Bridge) CurrentSession(ctx context.Context, sid string) *supabase.Session {
	if b.client == nil {
		return nil
	}
	e := b.store.get(sid)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	ts := e.tokens
	e.mu.Unlock()

	if _, err := ts.Token(); err != nil {
		b.logger.Warn("session refresh failed", "err", err)
		b.store.Delete(sid)
		b.events.Publish(Event{Type: SignedOut, SessionID: sid})
		return nil
	}
	return b.store.Get(sid)
}

// UpdatePasswordSecurely changes the signed-in user's password. If the
// backend wants a fresh login first, the current password is used to sign
// in again and the update is retried once.
func (b *Bridge) UpdatePasswordSecurely(ctx context.Context, sid string, pc PasswordChange) Result {
	if b.client == nil {
		return fail(MsgNotConfigured)
	}
	sess := b.CurrentSession(ctx, sid)
	if sess == nil || sess.User == nil || sess.User.Email == "" {
		return fail(MsgMustSignIn)
	}
	email := sess.User.Email

	_, err := b.Client(sid).UpdateUser(ctx, supabase.UserAttributes{Password: pc.New})
	if err == nil {
		return b.passwordUpdated(sid)
	}
	if Classify(err) != NeedsReauth {
		b.logger.Warn("password update failed", "category", Classify(err), "err", err)
		return fail(friendlyPasswordError(err))
	}

	fresh, err := b.client.SignInWithPassword(ctx, email, pc.Current)
	if err != nil {
		b.logger.Warn("reauthentication failed", "category", Classify(err), "err", err)
		return fail(friendlyPasswordError(err))
	}
	b.remember(ctx, sid, fresh)

	if _, err := b.Client(sid).UpdateUser(ctx, supabase.UserAttributes{Password: pc.New}); err != nil {
		b.logger.Warn("password update retry failed", "category", Classify(err), "err", err)
		return fail(friendlyPasswordError(err))
	}
	return b.passwordUpdated(sid)
}

func (b *Bridge) passwordUpdated(sid string) Result {
	b.events.Publish(Event{Type: UserUpdated, SessionID: sid, Session: b.store.Get(sid)})
	return Result{Success: true, Message: MsgPasswordUpdated}
}

// remember stores sess for sid with a token source that refreshes it.
// Refreshes outlive the request that signed in, so ctx only carries values.
func (b *Bridge) remember(ctx context.Context, sid string, sess *supabase.Session) {
	ts := b.client.NewSessionTokenSource(context.WithoutCancel(ctx), sess, func(s *supabase.Session) {
		b.store.update(sid, s)
	})
	b.store.put(sid, sess, ts)
}

// providerFailure maps a backend error to a Result. Backend rejections carry
// their own message; transport failures get the generic one.
func (b *Bridge) providerFailure(op string, err error, generic string) Result {
	var ae *supabase.APIError
	if errors.As(err, &ae) {
		b.logger.Info(op+" rejected", "status", ae.Status, "code", ae.Code)
		return fail(ae.Message)
	}
	b.logger.Error(op, "err", err)
	return fail(generic)
}
