package chat

import "errors"

// Precondition failures recovered at the orchestrator boundary. None of
// these reach the provider: each produces exactly one user-facing notice and
// leaves the transcript untouched.
var (
	// ErrEmptyCredential is returned when a candidate API key is blank
	ErrEmptyCredential = errors.New("API key is empty")

	// ErrMalformedCredential is returned when a candidate API key does not
	// follow the provider's prefix convention
	ErrMalformedCredential = errors.New(`API keys should start with "sk-"`)

	// ErrMissingCredential is returned by Send when no API key is configured
	ErrMissingCredential = errors.New("no API key configured")

	// ErrEmptyInput is returned by Send when there is neither input text nor
	// a pending attachment
	ErrEmptyInput = errors.New("nothing to send")

	// ErrBusy is returned by Send while another request is in flight
	ErrBusy = errors.New("a request is already in flight")
)
