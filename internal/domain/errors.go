package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")

	// ErrSessionOrphaned marks a session record whose user no longer exists.
	// The record is corrupt state: it must be destroyed and the browser
	// cookie cleared.
	ErrSessionOrphaned = errors.New("session user no longer exists")
)
