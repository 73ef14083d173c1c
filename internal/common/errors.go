// Package common defines shared constants and sentinel errors used across
// the recorder, the persistence bridge and its transport. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Generic flow control.
	ErrorInternal = errors.New("internal error")

	// Capture errors.
	ErrCaptureUnavailable = errors.New("capture device unavailable")
	ErrNoClip             = errors.New("no unsaved recording")

	// Persistence bridge errors.
	ErrWriteFailure  = errors.New("write failure")
	ErrDeleteFailure = errors.New("delete failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
