package session

import "errors"

var (
	// ErrInvalidCredentials wraps login failures the server attributed to
	// the supplied username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStorageCorruption marks stored session data that could not be
	// trusted. It is logged and recovered from, never returned to callers.
	ErrStorageCorruption = errors.New("session storage corrupted")

	ErrIncompleteLogin = errors.New("login response without token or identity")
)
