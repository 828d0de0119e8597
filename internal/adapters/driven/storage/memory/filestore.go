package memory

import (
	"context"
	"sync"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// fileRecord holds the registered state of one attachment file.
type fileRecord struct {
	content []byte
	local   bool
	remote  bool
}

// FileStore is an in-memory implementation of driven.FileStore.
// Hosts register attachment file state explicitly; it also serves as the
// test double for the validators.
type FileStore struct {
	mu    sync.RWMutex
	files map[domain.SubjectID]fileRecord
}

// NewFileStore creates a new in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[domain.SubjectID]fileRecord)}
}

// PutLocal registers a locally available file with the given content.
func (s *FileStore) PutLocal(id domain.SubjectID, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.files[id]
	record.content = content
	record.local = true
	s.files[id] = record
}

// PutRemote marks a file as available in remote storage.
func (s *FileStore) PutRemote(id domain.SubjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.files[id]
	record.remote = true
	s.files[id] = record
}

// Remove drops all registered state for a file.
func (s *FileStore) Remove(id domain.SubjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, id)
}

// ExistsLocally reports whether a local copy is registered.
func (s *FileStore) ExistsLocally(_ context.Context, subject domain.Subject) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[subject.ID()].local, nil
}

// ExistsRemotely reports whether a remote copy is registered.
func (s *FileStore) ExistsRemotely(_ context.Context, subject domain.Subject) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[subject.ID()].remote, nil
}

// TotalSize returns the size of the registered local file.
func (s *FileStore) TotalSize(_ context.Context, subject domain.Subject) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.files[subject.ID()]
	if !ok || !record.local {
		return 0, domain.ErrNotFound
	}
	return int64(len(record.content)), nil
}

// Read returns the bytes of the registered local file.
func (s *FileStore) Read(_ context.Context, subject domain.Subject) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.files[subject.ID()]
	if !ok || !record.local {
		return nil, domain.ErrNotFound
	}
	return record.content, nil
}
