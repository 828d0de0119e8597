package driven

import (
	"context"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// FileStore answers availability questions about attachment files.
// Local availability refers to the file at the subject's FilePath;
// remote availability refers to the library's remote file storage.
type FileStore interface {
	// ExistsLocally reports whether a local copy of the file exists.
	ExistsLocally(ctx context.Context, subject domain.Subject) (bool, error)

	// ExistsRemotely reports whether a copy exists in remote storage.
	ExistsRemotely(ctx context.Context, subject domain.Subject) (bool, error)

	// TotalSize returns the size of the local file in bytes.
	TotalSize(ctx context.Context, subject domain.Subject) (int64, error)

	// Read returns the bytes of the local file.
	Read(ctx context.Context, subject domain.Subject) ([]byte, error)
}
