package auth

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages shown on the sign in and sign up forms.
const (
	MsgFillAllFields      = "Please fill in all fields"
	MsgInvalidEmail       = "Please enter a valid email address"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgAcceptTerms        = "Please accept the terms of service to continue"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailExists        = "An account with this email already exists"
	MsgAuthFailed         = "An error occurred during authentication"
	MsgGoogleFailed       = "Failed to sign in with Google. Please try again."

	// MinPasswordLength of local accounts.
	MinPasswordLength = 6
)

// emailPattern accepts anything shaped like local@domain.tld without whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the studio rules registered.
//
//   - email_address: local@domain.tld without whitespace
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
	})

	return validate
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Credentials is the posted sign in or sign up form.
type Credentials struct {
	Email       string `form:"email"`
	Password    string `form:"password"`
	Name        string `form:"name"`
	AcceptTerms bool   `form:"terms"`
}

// Normalize trims the email and lower cases it.
func (c *Credentials) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Name = strings.TrimSpace(c.Name)
}

// ValidateCredentials returns the first failing rule as a form message, or "" when the form is valid.
// Terms are only checked on sign up.
func ValidateCredentials(c Credentials, signUp bool) string {
	v := Validator()

	if v.Var(c.Email, "required") != nil || v.Var(c.Password, "required") != nil {
		return MsgFillAllFields
	}

	if v.Var(c.Email, "email_address") != nil {
		return MsgInvalidEmail
	}

	if v.Var(c.Password, "min=6") != nil {
		return MsgPasswordTooShort
	}

	if signUp && !c.AcceptTerms {
		return MsgAcceptTerms
	}

	return ""
}
