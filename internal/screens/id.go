package screens

import (
	"errors"
	"regexp"
)

// ErrInvalidScreen is returned for identifiers outside [a-zA-Z0-9_-]+.
var ErrInvalidScreen = errors.New("invalid screen name")

var (
	validID      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	disallowedID = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// ValidID reports whether id may name a screen. Identifiers never contain
// path separators or dots, so they are safe to interpolate into paths and URLs.
func ValidID(id string) bool {
	return validID.MatchString(id)
}

// SanitizeToken drops every character outside the identifier grammar.
// The result may be empty.
func SanitizeToken(token string) string {
	return disallowedID.ReplaceAllString(token, "")
}
