package memory

import (
	"sync"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// SyncedHashStore records the last known content hash of each attachment at
// sync time, in memory. Used by the content-hash provider for files that
// only exist in remote storage.
type SyncedHashStore struct {
	mu     sync.RWMutex
	hashes map[domain.SubjectID]string
}

// NewSyncedHashStore creates a new in-memory synced-hash store.
func NewSyncedHashStore() *SyncedHashStore {
	return &SyncedHashStore{hashes: make(map[domain.SubjectID]string)}
}

// Set records the synced hash for a subject.
func (s *SyncedHashStore) Set(id domain.SubjectID, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[id] = hash
}

// Get returns the synced hash for a subject.
func (s *SyncedHashStore) Get(id domain.SubjectID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.hashes[id]
	return hash, ok
}

// Delete removes the synced hash for a subject.
func (s *SyncedHashStore) Delete(id domain.SubjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, id)
}
