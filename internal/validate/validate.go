// Package validate checks form input against declarative rules. Failures are
// data, not errors.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Field types with extra checks.
const (
	TypeEmail    = "email"
	TypePassword = "password"
)

// DefaultPasswordMinLength applies to password fields without a MinLength.
const DefaultPasswordMinLength = 6

// Rule describes the constraints on one field.
type Rule struct {
	Required  bool           `json:"required,omitempty"`
	Type      string         `json:"type,omitempty"`
	MinLength int            `json:"minLength,omitempty"`
	MaxLength int            `json:"maxLength,omitempty"`
	Pattern   *regexp.Regexp `json:"-"`
}

// Result lists the first failure of each invalid field.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// First returns the error of the first field in order that has one.
func (r Result) First(order ...string) string {
	for _, f := range order {
		if msg, ok := r.Errors[f]; ok {
			return msg
		}
	}
	return ""
}

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	anglesRe   = regexp.MustCompile(`[<>]`)
	jsSchemeRe = regexp.MustCompile(`(?i)javascript:`)
	handlerRe  = regexp.MustCompile(`(?i)on\w+=`)
)

var weakPasswords = []string{"password", "123456", "12345678", "qwerty", "abc123"}

// SanitizeString trims s and strips angle brackets, javascript: schemes and
// inline-handler-like "onxxx=" fragments.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = anglesRe.ReplaceAllString(s, "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	return handlerRe.ReplaceAllString(s, "")
}

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Password checks length and the common-password denylist. It returns "" for
// an acceptable password.
func Password(pw string, minLength int) string {
	if pw == "" {
		return "Password is required"
	}
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	if utf8.RuneCountInString(pw) < minLength {
		return fmt.Sprintf("Password must be at least %d characters long", minLength)
	}
	if slices.Contains(weakPasswords, strings.ToLower(pw)) {
		return "Password is too common. Please choose a stronger password."
	}
	return ""
}

// Validate applies rules to values. Each field stops at its first failure;
// fields without a rule are ignored.
func Validate(values map[string]string, rules map[string]Rule) Result {
	res := Result{IsValid: true, Errors: make(map[string]string)}
	for field, rule := range rules {
		if msg := check(field, values[field], rule); msg != "" {
			res.Errors[field] = msg
			res.IsValid = false
		}
	}
	return res
}

func check(field, value string, rule Rule) string {
	blank := strings.TrimSpace(value) == ""
	if rule.Required && blank {
		return field + " is required"
	}
	if blank {
		return ""
	}
	if SanitizeString(value) != value {
		return field + " contains invalid characters"
	}

	switch rule.Type {
	case TypeEmail:
		if !IsValidEmail(value) {
			return "Invalid email format"
		}
	case TypePassword:
		if msg := Password(value, rule.MinLength); msg != "" {
			return msg
		}
	}

	n := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && n < rule.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", field, rule.MinLength)
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		return fmt.Sprintf("%s must be no more than %d characters", field, rule.MaxLength)
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		return field + " has an invalid format"
	}
	return ""
}
