package synthflow

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the client has no base URL or API key.
	ErrClientNotInitialized = errors.New("synthflow client not initialized")
	// ErrRequestFailed is returned for transport errors and non 2xx answers.
	ErrRequestFailed = errors.New("synthflow request failed")
	// ErrModelIDEmpty is returned when an assistant call has no model id.
	ErrModelIDEmpty = errors.New("synthflow model id cannot be empty")
	// ErrAssistantNotFound is returned when the assistant does not exist.
	ErrAssistantNotFound = errors.New("synthflow assistant not found")
	// ErrMalformedResponse is returned when the response envelope lacks the expected fields.
	ErrMalformedResponse = errors.New("synthflow response is malformed")
)
