package domain

import (
	"fmt"
	"time"
)

// ValidationType selects which tier of the validation policy runs.
type ValidationType string

// Available validation types.
const (
	// TypeLocalOnly runs only the fast local checks.
	TypeLocalOnly ValidationType = "local_only"

	// TypeBackend runs local checks and then the authoritative remote check.
	TypeBackend ValidationType = "backend"

	// TypeCached answers from cache where possible, falling back to a fresh
	// local-only run. Never issues its own remote call.
	TypeCached ValidationType = "cached"

	// TypeFrontend runs the comprehensive local-only attachment checks.
	TypeFrontend ValidationType = "frontend"
)

// IsValid returns true if the validation type is recognised.
func (t ValidationType) IsValid() bool {
	switch t {
	case TypeLocalOnly, TypeBackend, TypeCached, TypeFrontend:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ValidationType) String() string {
	return string(t)
}

// Result is the outcome of validating a single subject.
type Result struct {
	// Valid reports whether the subject is eligible for processing.
	Valid bool

	// Reason explains an invalid verdict. Empty for valid results.
	Reason string

	// BackendChecked marks the result as confirmed by the remote service.
	// Authoritative results are trusted from cache without re-derivation.
	BackendChecked bool
}

// CompositeResult is the outcome of validating a regular item together with
// its attachment set.
type CompositeResult struct {
	// Valid reports whether the parent item is eligible.
	Valid bool

	// Reason explains an invalid parent verdict.
	Reason string

	// Attachments holds the per-attachment results. Every attachment
	// enumerated during composite validation has an entry.
	Attachments map[SubjectID]Result
}

// Canonical invalidity reasons shared across validators.
const (
	// ReasonNotAvailable is used when neither a local nor a remote copy of
	// an attachment file exists.
	ReasonNotAvailable = "File not available locally or on server"

	// ReasonSizeCheckFailed is used when the local file size could not be
	// determined.
	ReasonSizeCheckFailed = "Unable to check file size"

	// ReasonFileMissing is used when no content hash can be derived for an
	// attachment that needs a remote check.
	ReasonFileMissing = "File is missing"

	// ReasonUnexpected is the generic reason for unexpected failures,
	// including remote transport errors during batch validation.
	ReasonUnexpected = "Unexpected error"
)

// CacheKey identifies one cached validation verdict. Using a typed composite
// key avoids the collision risk of delimiter-joined strings.
type CacheKey struct {
	// CollectionID is the subject's owning collection.
	CollectionID int64

	// Key is the subject's external key.
	Key string

	// Type is the validation tier the verdict belongs to.
	Type ValidationType
}

// NewCacheKey builds the cache key for a subject and validation type.
func NewCacheKey(id SubjectID, t ValidationType) CacheKey {
	return CacheKey{CollectionID: id.CollectionID, Key: id.Key, Type: t}
}

// String returns a canonical collision-free string form, used where a string
// key is required (e.g. single-flight grouping). The external key is quoted
// so embedded separators cannot collide.
func (k CacheKey) String() string {
	return fmt.Sprintf("%d/%q/%s", k.CollectionID, k.Key, k.Type)
}

// CacheEntry is one cached validation verdict.
type CacheEntry struct {
	// Result is the cached verdict.
	Result Result

	// Timestamp is when the entry was stored or last refreshed.
	Timestamp time.Time

	// ContentHash is the content hash the verdict was derived from, or ""
	// when no hash was known at store time.
	ContentHash string
}
