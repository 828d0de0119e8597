package services

import (
	"context"
	"sync"
	"time"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// stubSettings is a fixed-value settings provider.
type stubSettings struct {
	settings domain.EngineSettings
}

func (s *stubSettings) Settings() domain.EngineSettings {
	return s.settings
}

func defaultSettings() *stubSettings {
	return &stubSettings{settings: domain.DefaultEngineSettings()}
}

// stubSubject is a minimal domain.Subject for tests.
type stubSubject struct {
	id          domain.SubjectID
	kind        domain.Kind
	missing     bool
	trashed     bool
	path        string
	contentType string
	added       time.Time
	annType     string
	text        string
	parent      domain.Subject
	children    []domain.Subject
}

func (s *stubSubject) ID() domain.SubjectID          { return s.id }
func (s *stubSubject) Kind() domain.Kind             { return s.kind }
func (s *stubSubject) Exists() bool                  { return !s.missing }
func (s *stubSubject) InTrash() bool                 { return s.trashed }
func (s *stubSubject) FilePath() string              { return s.path }
func (s *stubSubject) ContentType() string           { return s.contentType }
func (s *stubSubject) AddedAt() time.Time            { return s.added }
func (s *stubSubject) AnnotationType() string        { return s.annType }
func (s *stubSubject) Text() string                  { return s.text }
func (s *stubSubject) Parent() domain.Subject        { return s.parent }
func (s *stubSubject) Attachments() []domain.Subject { return s.children }

func attachment(collection int64, key string) *stubSubject {
	return &stubSubject{
		id:          domain.SubjectID{CollectionID: collection, Key: key},
		kind:        domain.KindAttachment,
		path:        "/library/" + key + ".pdf",
		contentType: "application/pdf",
	}
}

func regularItem(collection int64, key string, children ...domain.Subject) *stubSubject {
	return &stubSubject{
		id:       domain.SubjectID{CollectionID: collection, Key: key},
		kind:     domain.KindItem,
		children: children,
	}
}

// stubFiles is a configurable file store.
type stubFiles struct {
	local   map[domain.SubjectID]bool
	remote  map[domain.SubjectID]bool
	sizes   map[domain.SubjectID]int64
	content map[domain.SubjectID][]byte

	sizeErr error
	readErr error
}

func newStubFiles() *stubFiles {
	return &stubFiles{
		local:   make(map[domain.SubjectID]bool),
		remote:  make(map[domain.SubjectID]bool),
		sizes:   make(map[domain.SubjectID]int64),
		content: make(map[domain.SubjectID][]byte),
	}
}

func (f *stubFiles) ExistsLocally(_ context.Context, subject domain.Subject) (bool, error) {
	return f.local[subject.ID()], nil
}

func (f *stubFiles) ExistsRemotely(_ context.Context, subject domain.Subject) (bool, error) {
	return f.remote[subject.ID()], nil
}

func (f *stubFiles) TotalSize(_ context.Context, subject domain.Subject) (int64, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}
	if size, ok := f.sizes[subject.ID()]; ok {
		return size, nil
	}
	return int64(len(f.content[subject.ID()])), nil
}

func (f *stubFiles) Read(_ context.Context, subject domain.Subject) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	data, ok := f.content[subject.ID()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// addLocal registers a local file for the subject.
func (f *stubFiles) addLocal(id domain.SubjectID, content []byte) {
	f.local[id] = true
	f.content[id] = content
}

// stubHashes is a configurable content-hash provider.
type stubHashes struct {
	mu     sync.Mutex
	local  map[domain.SubjectID]string
	synced map[domain.SubjectID]string
}

func newStubHashes() *stubHashes {
	return &stubHashes{
		local:  make(map[domain.SubjectID]string),
		synced: make(map[domain.SubjectID]string),
	}
}

func (h *stubHashes) LocalHash(_ context.Context, subject domain.Subject) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hash, ok := h.local[subject.ID()]; ok {
		return hash, nil
	}
	return "", domain.ErrHashUnavailable
}

func (h *stubHashes) SyncedHash(_ context.Context, subject domain.Subject) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hash, ok := h.synced[subject.ID()]; ok {
		return hash, nil
	}
	return "", domain.ErrHashUnavailable
}

func (h *stubHashes) setLocal(id domain.SubjectID, hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.local[id] = hash
}

// stubAnalyser is a configurable document analyser.
type stubAnalyser struct {
	pages    int
	pagesErr error
	needsOCR bool
	ocrErr   error
}

func (a *stubAnalyser) PageCount(_ context.Context, _ []byte) (int, error) {
	return a.pages, a.pagesErr
}

func (a *stubAnalyser) NeedsOCR(_ context.Context, _ []byte) (bool, error) {
	return a.needsOCR, a.ocrErr
}

// stubRemote records calls to the remote validation client.
type stubRemote struct {
	mu sync.Mutex

	attachmentCalls int
	status          driven.AttachmentStatus
	statusErr       error

	batchCalls int
	candidates [][]driven.BatchCandidate
	batch      *driven.BatchResult
	batchErr   error

	// release, when non-nil, blocks calls until closed.
	release chan struct{}
}

func (r *stubRemote) CheckAttachment(_ context.Context, check driven.AttachmentCheck) (*driven.AttachmentStatus, error) {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachmentCalls++
	if r.statusErr != nil {
		return nil, r.statusErr
	}
	status := r.status
	status.CollectionID = check.CollectionID
	status.Key = check.Key
	return &status, nil
}

func (r *stubRemote) CheckRegularItemBatch(_ context.Context, _ domain.Subject, candidates []driven.BatchCandidate) (*driven.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	r.candidates = append(r.candidates, candidates)
	if r.batchErr != nil {
		return nil, r.batchErr
	}
	return r.batch, nil
}

func (r *stubRemote) calls() (attachment, batch int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attachmentCalls, r.batchCalls
}
