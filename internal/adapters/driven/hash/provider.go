// Package hash implements the content-hash provider over a file store and
// a synced-hash store, using xxhash64 for local files.
package hash

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ContentHashProvider = (*Provider)(nil)

// SyncedHashStore looks up the hash recorded when a file was last synced.
type SyncedHashStore interface {
	// Get returns the synced hash for a subject.
	Get(id domain.SubjectID) (string, bool)
}

// Provider derives content hashes: local hashes by digesting the file bytes
// through the file store, synced hashes from the synced-hash store.
type Provider struct {
	files  driven.FileStore
	synced SyncedHashStore
}

// NewProvider creates a new content-hash provider.
// The synced store is optional; without it SyncedHash always reports
// unavailable.
func NewProvider(files driven.FileStore, synced SyncedHashStore) *Provider {
	return &Provider{files: files, synced: synced}
}

// LocalHash computes the xxhash64 digest of the local attachment file.
func (p *Provider) LocalHash(ctx context.Context, subject domain.Subject) (string, error) {
	exists, err := p.files.ExistsLocally(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("local hash: %w", err)
	}
	if !exists {
		return "", domain.ErrHashUnavailable
	}

	data, err := p.files.Read(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("local hash: %w", err)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// SyncedHash returns the last known synced hash for the subject.
func (p *Provider) SyncedHash(_ context.Context, subject domain.Subject) (string, error) {
	if p.synced == nil {
		return "", domain.ErrHashUnavailable
	}
	hash, ok := p.synced.Get(subject.ID())
	if !ok || hash == "" {
		return "", domain.ErrHashUnavailable
	}
	return hash, nil
}
