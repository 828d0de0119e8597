package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Content Analysis Errors.

	// ErrEncrypted indicates a password-protected document.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrInvalidDocument indicates a corrupted or unparseable document.
	ErrInvalidDocument = errors.New("invalid document")

	// Hash Errors.

	// ErrHashUnavailable indicates no content hash could be derived for a
	// subject, locally or from sync state.
	ErrHashUnavailable = errors.New("content hash unavailable")

	// Remote Errors.

	// ErrRemoteUnavailable indicates the remote validation service could not
	// be reached. Results derived from it are never cached as authoritative.
	ErrRemoteUnavailable = errors.New("remote validation service unavailable")
)
