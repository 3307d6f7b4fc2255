package auth

import (
	"errors"
	"strings"

	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Category is the coarse class of a backend auth failure.
type Category int

const (
	Other Category = iota
	NeedsReauth
	BadCredentials
	WeakPassword
	Expired
)

func (c Category) String() string {
	switch c {
	case NeedsReauth:
		return "needs_reauth"
	case BadCredentials:
		return "bad_credentials"
	case WeakPassword:
		return "weak_password"
	case Expired:
		return "expired"
	default:
		return "other"
	}
}

// errorCodes maps GoTrue error_code values to categories.
var errorCodes = map[string]Category{
	"reauthentication_needed":    NeedsReauth,
	"reauthentication_not_valid": NeedsReauth,
	"insufficient_aal":           NeedsReauth,
	"invalid_credentials":        BadCredentials,
	"invalid_grant":              BadCredentials,
	"weak_password":              WeakPassword,
	"same_password":              WeakPassword,
	"session_expired":            Expired,
	"session_not_found":          Expired,
	"refresh_token_not_found":    Expired,
}

// Classify sorts a backend error. Structured error codes win; when the
// backend sends none, the message is matched against known phrases, which is
// best effort only.
func Classify(err error) Category {
	if err == nil {
		return Other
	}
	var ae *supabase.APIError
	if errors.As(err, &ae) && ae.Code != "" {
		if c, ok := errorCodes[ae.Code]; ok {
			return c
		}
	}

	msg := strings.ToLower(err.Error())
	if ae != nil {
		msg = strings.ToLower(ae.Message)
	}
	switch {
	case strings.Contains(msg, "recent"),
		strings.Contains(msg, "reauth"),
		strings.Contains(msg, "re-auth"),
		strings.Contains(msg, "login") && strings.Contains(msg, "required"):
		return NeedsReauth
	case strings.Contains(msg, "invalid"):
		return BadCredentials
	case strings.Contains(msg, "password"):
		return WeakPassword
	case strings.Contains(msg, "expired"):
		return Expired
	}
	return Other
}

// friendlyPasswordError turns a failed password change into the message the
// profile form shows.
func friendlyPasswordError(err error) string {
	switch Classify(err) {
	case BadCredentials:
		return MsgWrongCurrentPassword
	case WeakPassword:
		return MsgWeakNewPassword
	case Expired, NeedsReauth:
		return MsgSessionExpired
	default:
		return MsgPasswordUpdateFailed
	}
}
