package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fieldsOf(ve ValidationErrors) []string {
	fields := make([]string, len(ve))
	for i, fe := range ve {
		fields[i] = fe.Field
	}
	return fields
}

func TestValidateSignup_Valid(t *testing.T) {
	req := &RegisterRequest{
		Name:                 "Example User",
		Email:                "User@Example.COM",
		Password:             "foobar",
		PasswordConfirmation: "foobar",
	}
	assert.Empty(t, ValidateSignup(req))

	// Length limits count characters, not bytes.
	assert.Empty(t, ValidateName(strings.Repeat("é", 50)))
	assert.Empty(t, ValidatePassword("pässwörd", "pässwörd"))
}

func TestValidateSignup_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"blank name", RegisterRequest{Name: " ", Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar"}, "name"},
		{"long name", RegisterRequest{Name: strings.Repeat("a", 51), Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar"}, "name"},
		{"long multibyte name", RegisterRequest{Name: strings.Repeat("é", 51), Email: "a@b.com", Password: "foobar", PasswordConfirmation: "foobar"}, "name"},
		{"blank email", RegisterRequest{Name: "User", Email: "", Password: "foobar", PasswordConfirmation: "foobar"}, "email"},
		{"short password", RegisterRequest{Name: "User", Email: "a@b.com", Password: "fooba", PasswordConfirmation: "fooba"}, "password"},
		{"short multibyte password", RegisterRequest{Name: "User", Email: "a@b.com", Password: strings.Repeat("é", 5), PasswordConfirmation: strings.Repeat("é", 5)}, "password"},
		{"mismatched confirmation", RegisterRequest{Name: "User", Email: "a@b.com", Password: "foobar", PasswordConfirmation: "barfoo"}, "password_confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := ValidateSignup(&tt.req)
			assert.NotEmpty(t, ve)
			assert.Contains(t, fieldsOf(ve), tt.field)
		})
	}
}

func TestValidateEmail_Format(t *testing.T) {
	valid := []string{
		"user@foo.com",
		"A_US-ER@f.b.org",
		"frst.lst@foo.jp",
		"a+b@baz.cn",
	}
	for _, email := range valid {
		assert.Empty(t, ValidateEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"user@foo,com",
		"user_at_foo.org",
		"example.user@foo.",
		"foo@bar_baz.com,extra",
	}
	for _, email := range invalid {
		assert.NotEmpty(t, ValidateEmail(email), "expected %q to be invalid", email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail(" User@EXAMPLE.Com "))
}

func TestValidateMicropostContent(t *testing.T) {
	assert.Empty(t, ValidateMicropostContent(strings.Repeat("a", 140)))

	ve := ValidateMicropostContent(strings.Repeat("a", 141))
	assert.Len(t, ve, 1)
	assert.Equal(t, "content", ve[0].Field)

	ve = ValidateMicropostContent("   ")
	assert.Len(t, ve, 1)
	assert.Equal(t, "can't be blank", ve[0].Message)
}

func TestValidationErrors_Error(t *testing.T) {
	ve := ValidationErrors{{Field: "name", Message: "can't be blank"}}
	assert.Contains(t, ve.Error(), "name can't be blank")
}
