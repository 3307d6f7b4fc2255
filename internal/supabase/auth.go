package supabase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"
)

// User is the GoTrue user object.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
}

// MetaString returns a string field of the user metadata.
func (u *User) MetaString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	s, _ := u.UserMetadata[key].(string)
	return s
}

// Session is an authenticated GoTrue session.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Expiry returns when the access token stops being valid.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if s.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

// Token converts the session into an oauth2 token.
func (s *Session) Token() *oauth2.Token {
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    tokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
	}
}

// UserAttributes are the user fields that can be changed.
type UserAttributes struct {
	Email    string         `json:"email,omitempty"`
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// authClient returns the gotrue client for one call, bound to ctx and
// carrying the current bearer token.
func (c *Client) authClient(ctx context.Context) (gotrue.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tok, err := c.accessToken()
	if err != nil {
		return nil, err
	}
	return c.auth.WithClient(c.httpClient(ctx)).WithToken(tok), nil
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	ac, err := c.authClient(ctx)
	if err != nil {
		return nil, err
	}
	res, err := ac.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, authError(err)
	}
	return fromSession(res.Session), nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	ac, err := c.authClient(ctx)
	if err != nil {
		return nil, err
	}
	res, err := ac.RefreshToken(refreshToken)
	if err != nil {
		return nil, authError(err)
	}
	return fromSession(res.Session), nil
}

// SignUp registers a user. When email confirmation is on the backend returns
// only the user and the session is nil.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]any) (*Session, *User, error) {
	ac, err := c.authClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	res, err := ac.Signup(types.SignupRequest{Email: email, Password: password, Data: data})
	if err != nil {
		return nil, nil, authError(err)
	}
	if res.Session.AccessToken != "" {
		s := fromSession(res.Session)
		return s, s.User, nil
	}
	return nil, fromUser(res.User), nil
}

// SignOut revokes the session the client is scoped to.
func (c *Client) SignOut(ctx context.Context) error {
	ac, err := c.authClient(ctx)
	if err != nil {
		return err
	}
	return authError(ac.Logout())
}

// GetUser returns the user the client is scoped to.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	ac, err := c.authClient(ctx)
	if err != nil {
		return nil, err
	}
	res, err := ac.GetUser()
	if err != nil {
		return nil, authError(err)
	}
	return fromUser(res.User), nil
}

// UpdateUser changes the scoped user's email, password or metadata.
func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes) (*User, error) {
	ac, err := c.authClient(ctx)
	if err != nil {
		return nil, err
	}
	req := types.UpdateUserRequest{Email: attrs.Email, Data: attrs.Data}
	if attrs.Password != "" {
		req.Password = &attrs.Password
	}
	res, err := ac.UpdateUser(req)
	if err != nil {
		return nil, authError(err)
	}
	return fromUser(res.User), nil
}

func fromSession(s types.Session) *Session {
	out := &Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    int64(s.ExpiresIn),
		ExpiresAt:    s.ExpiresAt,
		RefreshToken: s.RefreshToken,
	}
	if s.User.ID != uuid.Nil || s.User.Email != "" {
		out.User = fromUser(s.User)
	}
	return out
}

func fromUser(u types.User) *User {
	out := &User{
		Email:        u.Email,
		Role:         u.Role,
		UserMetadata: u.UserMetadata,
		AppMetadata:  u.AppMetadata,
	}
	if u.ID != uuid.Nil {
		out.ID = u.ID.String()
	}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return out
}

// SessionTokenSource refreshes a session through the backend. Wrap it in
// oauth2.ReuseTokenSource so refreshes only happen once the token expires.
type SessionTokenSource struct {
	ctx       context.Context
	client    *Client
	onRefresh func(*Session)

	mu      sync.Mutex
	refresh string
}

// NewSessionTokenSource returns a reusable token source seeded with s.
// onRefresh, if non-nil, receives every refreshed session.
func (c *Client) NewSessionTokenSource(ctx context.Context, s *Session, onRefresh func(*Session)) oauth2.TokenSource {
	src := &SessionTokenSource{
		ctx:       ctx,
		client:    c,
		onRefresh: onRefresh,
		refresh:   s.RefreshToken,
	}
	return oauth2.ReuseTokenSource(s.Token(), src)
}

// Token implements oauth2.TokenSource.
func (ts *SessionTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.refresh == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Code: "session_expired", Message: "Session expired and no refresh token is available"}
	}
	s, err := ts.client.RefreshSession(ts.ctx, ts.refresh)
	if err != nil {
		return nil, err
	}
	ts.refresh = s.RefreshToken
	if ts.onRefresh != nil {
		ts.onRefresh(s)
	}
	return s.Token(), nil
}
