// Package login provides the sign in, sign up and sign out handlers.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrLocalAuthDisabled is returned when email and password accounts are
	// disabled by configuration.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")

	// ErrInternalServerError is returned for unexpected failures during the login
	// process.
	ErrInternalServerError = errors.New("internal server error")
)
