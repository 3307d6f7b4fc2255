package validate

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortPasswordFails(t *testing.T) {
	res := Validate(
		map[string]string{"password": "abc"},
		map[string]Rule{"password": {Required: true, Type: TypePassword, MinLength: 8}},
	)
	assert.False(t, res.IsValid)
	assert.Equal(t, "Password must be at least 8 characters long", res.Errors["password"])
}

func TestValidLoginForm(t *testing.T) {
	res := Validate(
		map[string]string{"email": "a@b.com", "password": "Passw0rd"},
		map[string]Rule{
			"email":    {Type: TypeEmail},
			"password": {Type: TypePassword, MinLength: 6},
		},
	)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		name  string
		value string
		rule  Rule
		want  string
	}{
		{"required blank", "   ", Rule{Required: true}, "field is required"},
		{"optional blank skips", "", Rule{MinLength: 5, Type: TypeEmail}, ""},
		{"angle brackets", "<b>", Rule{}, "field contains invalid characters"},
		{"javascript scheme", "JavaScript:alert(1)", Rule{}, "field contains invalid characters"},
		{"handler", "x onload=y", Rule{}, "field contains invalid characters"},
		{"surrounding space", " ada ", Rule{}, "field contains invalid characters"},
		{"bad email", "ada@example", Rule{Type: TypeEmail}, "Invalid email format"},
		{"good email", "ada@example.com", Rule{Type: TypeEmail}, ""},
		{"default password min", "abc12", Rule{Type: TypePassword}, "Password must be at least 6 characters long"},
		{"weak password", "QWERTY", Rule{Type: TypePassword}, "Password is too common. Please choose a stronger password."},
		{"min length", "ab", Rule{MinLength: 3}, "field must be at least 3 characters"},
		{"max length", "abcd", Rule{MaxLength: 3}, "field must be no more than 3 characters"},
		{"multibyte counted as characters", "héé", Rule{MaxLength: 3}, ""},
		{"pattern", "abc", Rule{Pattern: regexp.MustCompile(`^\d+$`)}, "field has an invalid format"},
		{"length before pattern", "1", Rule{MinLength: 2, Pattern: regexp.MustCompile(`^[a-z]+$`)}, "field must be at least 2 characters"},
		{"email before length", "x", Rule{Type: TypeEmail, MinLength: 5}, "Invalid email format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(map[string]string{"field": tc.value}, map[string]Rule{"field": tc.rule})
			assert.Equal(t, tc.want, res.Errors["field"])
			assert.Equal(t, tc.want == "", res.IsValid)
		})
	}
}

func TestFieldsWithoutRulesIgnored(t *testing.T) {
	res := Validate(map[string]string{"extra": "<script>"}, map[string]Rule{})
	assert.True(t, res.IsValid)
}

func TestFirst(t *testing.T) {
	res := Validate(
		map[string]string{"email": "bad", "password": ""},
		map[string]Rule{"email": {Type: TypeEmail}, "password": {Required: true}},
	)
	assert.Equal(t, "Invalid email format", res.First("email", "password"))
	assert.Equal(t, "password is required", res.First("password", "email"))
	assert.Equal(t, "", res.First("other"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", SanitizeString(" <script>alert(1)</script> "))
	assert.Equal(t, "x", SanitizeString("javascript:x"))
	assert.Equal(t, "img x", SanitizeString("img onError=x"))
}

func TestStrongPassword(t *testing.T) {
	cases := map[string][2]string{
		MsgPasswordLen:   {"Ab1", "Ab1"},
		MsgPasswordDigit: {"Abcdefgh", "Abcdefgh"},
		MsgPasswordUpper: {"abcdefg1", "abcdefg1"},
		MsgPasswordLower: {"ABCDEFG1", "ABCDEFG1"},
		MsgPasswordMatch: {"Abcdefg1", "Abcdefg2"},
		"":               {"Abcdefg1", "Abcdefg1"},
	}
	for want, in := range cases {
		assert.Equal(t, want, StrongPassword(in[0], in[1]), in[0])
	}
}

func TestRegistrationCheck(t *testing.T) {
	ok := Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "Engine1843", ConfirmPassword: "Engine1843"}
	assert.Equal(t, "", ok.Check())

	r := ok
	r.Name = "Ada"
	assert.Equal(t, MsgFullName, r.Check())

	r = ok
	r.Email = "ada-at-example"
	assert.Equal(t, MsgEmail, r.Check())

	r = ok
	r.Name = "Ada <b>Lovelace</b>"
	assert.Equal(t, "name contains invalid characters", r.Check())

	r = ok
	r.Name = "Ada " + strings.Repeat("x", 120)
	assert.Equal(t, "name must be no more than 100 characters", r.Check())
}
