package domain

import (
	"regexp"
	"strings"
)

// Validation bounds for users and microposts.
const (
	MaxNameLength     = 50
	MinPasswordLength = 6
	MaxContentLength  = 140
)

var emailPattern = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-.]+\.[a-z]+$`)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of failures for one request.
// A nil/empty value means the input was valid.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = fe.Field + " " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a failure and returns the updated set.
func (ve ValidationErrors) Add(field, message string) ValidationErrors {
	return append(ve, FieldError{Field: field, Message: message})
}

// NormalizeEmail lower-cases and trims an email address. Emails are
// always persisted in this form so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks the user name constraints.
func ValidateName(name string) ValidationErrors {
	var ve ValidationErrors
	if strings.TrimSpace(name) == "" {
		ve = ve.Add("name", "can't be blank")
	} else if len([]rune(name)) > MaxNameLength {
		ve = ve.Add("name", "is too long (maximum is 50 characters)")
	}
	return ve
}

// ValidateEmail checks presence and format of an email address.
func ValidateEmail(email string) ValidationErrors {
	var ve ValidationErrors
	if strings.TrimSpace(email) == "" {
		ve = ve.Add("email", "can't be blank")
	} else if !emailPattern.MatchString(email) {
		ve = ve.Add("email", "is invalid")
	}
	return ve
}

// ValidatePassword checks password length and confirmation match.
func ValidatePassword(password, confirmation string) ValidationErrors {
	var ve ValidationErrors
	if password == "" {
		ve = ve.Add("password", "can't be blank")
	} else if len([]rune(password)) < MinPasswordLength {
		ve = ve.Add("password", "is too short (minimum is 6 characters)")
	}
	if password != confirmation {
		ve = ve.Add("password_confirmation", "doesn't match password")
	}
	return ve
}

// ValidateSignup checks all signup constraints at once.
func ValidateSignup(req *RegisterRequest) ValidationErrors {
	var ve ValidationErrors
	ve = append(ve, ValidateName(req.Name)...)
	ve = append(ve, ValidateEmail(req.Email)...)
	ve = append(ve, ValidatePassword(req.Password, req.PasswordConfirmation)...)
	return ve
}

// ValidateMicropostContent checks the post content constraints.
func ValidateMicropostContent(content string) ValidationErrors {
	var ve ValidationErrors
	if strings.TrimSpace(content) == "" {
		ve = ve.Add("content", "can't be blank")
	} else if len([]rune(content)) > MaxContentLength {
		ve = ve.Add("content", "is too long (maximum is 140 characters)")
	}
	return ve
}
