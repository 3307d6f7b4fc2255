package validate

import (
	"strings"
	"unicode"
)

// Registration is the sign-up form.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Registration form messages.
const (
	MsgFullName      = "Please enter your full name (first and last)."
	MsgEmail         = "Please enter a valid email address."
	MsgPasswordLen   = "Password must be at least 8 characters long."
	MsgPasswordDigit = "Password must contain at least one number."
	MsgPasswordUpper = "Password must contain at least one uppercase letter."
	MsgPasswordLower = "Password must contain at least one lowercase letter."
	MsgPasswordMatch = "Passwords do not match."
)

// FullName reports whether name has at least two words.
func FullName(name string) bool {
	return len(strings.Fields(name)) >= 2
}

// StrongPassword applies the sign-up password policy and returns the first
// failure, or "".
func StrongPassword(pw, confirm string) string {
	if len([]rune(pw)) < 8 {
		return MsgPasswordLen
	}
	if !strings.ContainsFunc(pw, unicode.IsDigit) {
		return MsgPasswordDigit
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return MsgPasswordUpper
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return MsgPasswordLower
	}
	if pw != confirm {
		return MsgPasswordMatch
	}
	return ""
}

// Check validates the whole form and returns the first message, or "".
// The rule-based checks run after the form's own so users see the more
// specific wording first.
func (r Registration) Check() string {
	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	if !FullName(name) {
		return MsgFullName
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return MsgEmail
	}
	if msg := StrongPassword(r.Password, r.ConfirmPassword); msg != "" {
		return msg
	}
	res := Validate(
		map[string]string{"name": name, "email": email, "password": r.Password},
		map[string]Rule{
			"name":     {Required: true, MaxLength: 100},
			"email":    {Required: true, Type: TypeEmail},
			"password": {Required: true, Type: TypePassword, MinLength: 8},
		},
	)
	return res.First("name", "email", "password")
}
