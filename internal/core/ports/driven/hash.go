package driven

import (
	"context"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// ContentHashProvider derives content hashes for attachment files.
// Hashes detect staleness of cached verdicts independent of TTL.
type ContentHashProvider interface {
	// LocalHash computes the hash of the local attachment file.
	// Returns domain.ErrHashUnavailable when no local file exists.
	LocalHash(ctx context.Context, subject domain.Subject) (string, error)

	// SyncedHash returns the last known hash recorded when the file was
	// synced to remote storage. Used for files that only exist remotely.
	// Returns domain.ErrHashUnavailable when no synced hash is known.
	SyncedHash(ctx context.Context, subject domain.Subject) (string, error)
}
