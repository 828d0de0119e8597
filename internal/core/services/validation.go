package services

import (
	"context"
	"fmt"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
	"github.com/refstack-labs/refcheck/internal/core/ports/driving"
	"github.com/refstack-labs/refcheck/internal/logger"
)

// Ensure ValidationEngine implements the interface.
var _ driving.ValidationService = (*ValidationEngine)(nil)

// ValidationEngine implements the tiered validation policy: cache lookup,
// in-flight deduplication, local/frontend/backend checks, and the composite
// parent-plus-attachments flows. One engine instance per execution context;
// the cache and registry are never exposed outside the engine.
type ValidationEngine struct {
	cache    *ValidationCache
	inflight *InflightRegistry
	local    *LocalValidator
	frontend *FrontendValidator
	hashes   driven.ContentHashProvider
	remote   driven.RemoteValidationClient
	settings driven.SettingsProvider
}

// NewValidationEngine creates a new validation engine.
// The remote client is optional - without it BACKEND validation and the
// composite batch call degrade to transport-failure behaviour.
func NewValidationEngine(
	cache *ValidationCache,
	inflight *InflightRegistry,
	local *LocalValidator,
	frontend *FrontendValidator,
	hashes driven.ContentHashProvider,
	remote driven.RemoteValidationClient,
	settings driven.SettingsProvider,
) *ValidationEngine {
	return &ValidationEngine{
		cache:    cache,
		inflight: inflight,
		local:    local,
		frontend: frontend,
		hashes:   hashes,
		remote:   remote,
		settings: settings,
	}
}

// Validate checks a single subject under the given validation type.
func (e *ValidationEngine) Validate(ctx context.Context, subject domain.Subject, vtype domain.ValidationType) (result domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("validation panicked for type %s: %v", vtype, r)
			result = invalid(domain.ReasonUnexpected)
			err = nil
		}
	}()

	if subject == nil {
		return domain.Result{}, fmt.Errorf("validate: %w: nil subject", domain.ErrInvalidInput)
	}
	if !vtype.IsValid() {
		return domain.Result{}, fmt.Errorf("validate: %w: validation type %q", domain.ErrInvalidInput, vtype)
	}

	if vtype == domain.TypeCached {
		return e.validateCached(ctx, subject)
	}

	e.cache.Sweep()

	if entry := e.cache.GetIfValid(ctx, subject, vtype); entry != nil {
		// Authoritative entries are returned without re-deriving local
		// state. Frontend entries are too: re-derivation is the expensive
		// path the cache exists to avoid. Advisory hits on the other tiers
		// fall through to a fresh run, whose outcome wins.
		if entry.Result.BackendChecked || vtype == domain.TypeFrontend {
			logger.Debug("cache hit for %v (%s)", subject.ID(), vtype)
			return entry.Result, nil
		}
		logger.Debug("advisory cache hit for %v (%s), re-checking", subject.ID(), vtype)
	}

	key := domain.NewCacheKey(subject.ID(), vtype)
	result, err, shared := e.inflight.Do(key, func() (domain.Result, error) {
		return e.compute(ctx, subject, vtype)
	})
	if shared {
		logger.Debug("joined in-flight validation for %s", key)
	}
	return result, err
}

// validateCached probes the BACKEND then LOCAL_ONLY tiers and returns the
// first valid hit without computation. With no usable hit it falls back to
// a fresh LOCAL_ONLY run; this tier never issues its own remote call.
func (e *ValidationEngine) validateCached(ctx context.Context, subject domain.Subject) (domain.Result, error) {
	e.cache.Sweep()

	for _, tier := range []domain.ValidationType{domain.TypeBackend, domain.TypeLocalOnly} {
		if entry := e.cache.GetIfValid(ctx, subject, tier); entry != nil {
			logger.Debug("cached tier hit for %v (%s)", subject.ID(), tier)
			return entry.Result, nil
		}
	}

	return e.Validate(ctx, subject, domain.TypeLocalOnly)
}

// compute runs the per-type checks and stores the outcome. Runs inside the
// in-flight registry: at most one computation per cache key.
func (e *ValidationEngine) compute(ctx context.Context, subject domain.Subject, vtype domain.ValidationType) (domain.Result, error) {
	switch vtype {
	case domain.TypeBackend:
		return e.computeBackend(ctx, subject)

	case domain.TypeFrontend:
		result := e.frontend.Validate(ctx, subject)
		e.cache.Set(subject.ID(), vtype, result, e.bestEffortLocalHash(ctx, subject))
		return result, nil

	default: // TypeLocalOnly
		lr := e.local.Validate(ctx, subject)
		result := domain.Result{Valid: lr.Valid, Reason: lr.Reason}
		e.cache.Set(subject.ID(), vtype, result, e.bestEffortLocalHash(ctx, subject))
		return result, nil
	}
}

// computeBackend runs local checks and, on pass, the authoritative remote
// check. A remote transport failure surfaces as an invalid,
// non-authoritative, uncached result so callers may retry.
func (e *ValidationEngine) computeBackend(ctx context.Context, subject domain.Subject) (domain.Result, error) {
	id := subject.ID()

	lr := e.local.Validate(ctx, subject)
	if !lr.Valid {
		result := invalid(lr.Reason)
		e.cache.Set(id, domain.TypeBackend, result, "")
		return result, nil
	}

	hash, err := e.contentHash(ctx, subject)
	if err != nil {
		// No local hash and no synced hash: nothing to send remotely.
		result := invalid(domain.ReasonFileMissing)
		e.cache.Set(id, domain.TypeBackend, result, "")
		return result, nil
	}

	status, err := e.checkAttachmentRemote(ctx, subject, hash)
	if err != nil {
		logger.Warn("backend check failed for %v: %v", id, err)
		return invalid(domain.ReasonUnexpected), nil
	}

	result := domain.Result{Valid: status.Processed, BackendChecked: true}
	if !status.Processed {
		result.Reason = remoteReason(status.Details)
	}
	e.cache.Set(id, domain.TypeBackend, result, hash)
	return result, nil
}

// ValidateRegularItem validates a parent item together with its attachment
// set, issuing at most one batched remote round trip.
func (e *ValidationEngine) ValidateRegularItem(ctx context.Context, parent domain.Subject) (composite domain.CompositeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("composite validation panicked: %v", r)
			composite = domain.CompositeResult{
				Reason:      domain.ReasonUnexpected,
				Attachments: make(map[domain.SubjectID]domain.Result),
			}
			err = nil
		}
	}()

	if parent == nil {
		return domain.CompositeResult{}, fmt.Errorf("validate item: %w: nil subject", domain.ErrInvalidInput)
	}

	e.cache.Sweep()
	results := make(map[domain.SubjectID]domain.Result)

	lr := e.local.Validate(ctx, parent)
	if !lr.Valid {
		return domain.CompositeResult{Reason: lr.Reason, Attachments: results}, nil
	}

	attachments := parent.Attachments()
	if len(attachments) == 0 {
		return domain.CompositeResult{Valid: true, Attachments: results}, nil
	}

	// Gather: evaluate every attachment locally before dispatching the one
	// outbound batch call. No partial batches are sent.
	pending := e.gatherCandidates(ctx, attachments, results)

	if len(pending) > 0 {
		done, batchComposite := e.dispatchBatch(ctx, parent, pending, results)
		if done {
			return batchComposite, nil
		}
	}

	// Every enumerated attachment gets an entry; anything resolved purely
	// from cache population elsewhere defaults to a non-authoritative pass.
	for _, att := range attachments {
		if _, ok := results[att.ID()]; !ok {
			results[att.ID()] = domain.Result{Valid: true}
		}
	}

	return domain.CompositeResult{Valid: true, Attachments: results}, nil
}

// gatherCandidates resolves each attachment from cache or local checks and
// returns the candidates that still need the remote batch check. Local
// failures are cached under both the LOCAL_ONLY and BACKEND keys so they
// are not re-attempted remotely.
func (e *ValidationEngine) gatherCandidates(ctx context.Context, attachments []domain.Subject, results map[domain.SubjectID]domain.Result) []driven.BatchCandidate {
	var pending []driven.BatchCandidate

	for _, att := range attachments {
		id := att.ID()

		if entry := e.cache.GetIfValid(ctx, att, domain.TypeBackend); entry != nil {
			results[id] = entry.Result
			continue
		}

		lr := e.local.Validate(ctx, att)
		if !lr.Valid {
			result := invalid(lr.Reason)
			e.cache.Set(id, domain.TypeLocalOnly, result, "")
			e.cache.Set(id, domain.TypeBackend, result, "")
			results[id] = result
			continue
		}

		hash, err := e.contentHash(ctx, att)
		if err != nil {
			result := invalid(domain.ReasonFileMissing)
			e.cache.Set(id, domain.TypeLocalOnly, result, "")
			e.cache.Set(id, domain.TypeBackend, result, "")
			results[id] = result
			continue
		}

		e.cache.Set(id, domain.TypeLocalOnly, domain.Result{Valid: true}, hash)
		pending = append(pending, driven.BatchCandidate{Subject: att, ContentHash: hash})
	}

	return pending
}

// dispatchBatch issues the single remote round trip for all pending
// candidates and demultiplexes the response into results. When the parent
// does not exist remotely the whole composite becomes invalid; in that case
// done is true and the returned composite is final.
func (e *ValidationEngine) dispatchBatch(ctx context.Context, parent domain.Subject, pending []driven.BatchCandidate, results map[domain.SubjectID]domain.Result) (done bool, composite domain.CompositeResult) {
	batch, err := e.checkBatchRemote(ctx, parent, pending)
	if err != nil {
		// Transport failure: mark and cache every pending candidate as
		// invalid under BACKEND so an indeterminate state cannot trigger
		// unbounded retries from the caller.
		logger.Warn("batch check failed for %v: %v", parent.ID(), err)
		for _, candidate := range pending {
			id := candidate.Subject.ID()
			result := invalid(domain.ReasonUnexpected)
			e.cache.Set(id, domain.TypeBackend, result, candidate.ContentHash)
			results[id] = result
		}
		return false, domain.CompositeResult{}
	}

	if !batch.ParentExists {
		// Parent existence is a precondition for any attachment-level
		// truth; attachment results are discarded.
		reason := batch.ParentDetails
		if reason == "" {
			reason = "Item does not exist on the server"
		}
		return true, domain.CompositeResult{
			Reason:      reason,
			Attachments: make(map[domain.SubjectID]domain.Result),
		}
	}

	statuses := make(map[domain.SubjectID]driven.AttachmentStatus, len(batch.Attachments))
	for _, status := range batch.Attachments {
		statuses[domain.SubjectID{CollectionID: status.CollectionID, Key: status.Key}] = status
	}

	for _, candidate := range pending {
		id := candidate.Subject.ID()

		var result domain.Result
		if status, ok := statuses[id]; ok {
			result = domain.Result{Valid: status.Processed, BackendChecked: true}
			if !status.Processed {
				result.Reason = remoteReason(status.Details)
			}
		} else {
			// A candidate absent from the response is a fault, not
			// something to silently ignore.
			logger.Warn("batch response missing candidate %v", id)
			result = invalid(domain.ReasonUnexpected)
		}

		e.cache.Set(id, domain.TypeBackend, result, candidate.ContentHash)
		results[id] = result
	}

	return false, domain.CompositeResult{}
}

// ValidateRegularItemFrontend mirrors ValidateRegularItem with the frontend
// validator per attachment and the FRONTEND cache tier. Never issues a
// network call.
func (e *ValidationEngine) ValidateRegularItemFrontend(ctx context.Context, parent domain.Subject) (composite domain.CompositeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("frontend composite validation panicked: %v", r)
			composite = domain.CompositeResult{
				Reason:      domain.ReasonUnexpected,
				Attachments: make(map[domain.SubjectID]domain.Result),
			}
			err = nil
		}
	}()

	if parent == nil {
		return domain.CompositeResult{}, fmt.Errorf("validate item frontend: %w: nil subject", domain.ErrInvalidInput)
	}

	e.cache.Sweep()
	results := make(map[domain.SubjectID]domain.Result)

	parentResult := e.frontend.Validate(ctx, parent)
	if !parentResult.Valid {
		return domain.CompositeResult{Reason: parentResult.Reason, Attachments: results}, nil
	}

	for _, att := range parent.Attachments() {
		id := att.ID()

		if entry := e.cache.GetIfValid(ctx, att, domain.TypeFrontend); entry != nil {
			results[id] = entry.Result
			continue
		}

		result := e.frontend.Validate(ctx, att)
		e.cache.Set(id, domain.TypeFrontend, result, e.bestEffortLocalHash(ctx, att))
		results[id] = result
	}

	return domain.CompositeResult{Valid: true, Attachments: results}, nil
}

// Invalidate removes cached verdicts of every validation type for the
// subject.
func (e *ValidationEngine) Invalidate(subject domain.Subject) {
	if subject == nil {
		return
	}
	logger.Debug("invalidating cached verdicts for %v", subject.ID())
	e.cache.Invalidate(subject.ID())
}

// ClearCache drops all cached verdicts and forgets in-flight handles.
func (e *ValidationEngine) ClearCache() {
	e.cache.Clear()
	e.inflight.Clear()
}

// checkAttachmentRemote calls the remote client for one attachment.
func (e *ValidationEngine) checkAttachmentRemote(ctx context.Context, subject domain.Subject, hash string) (*driven.AttachmentStatus, error) {
	if e.remote == nil {
		return nil, fmt.Errorf("check attachment: %w: no client configured", domain.ErrRemoteUnavailable)
	}
	id := subject.ID()
	return e.remote.CheckAttachment(ctx, driven.AttachmentCheck{
		CollectionID: id.CollectionID,
		Key:          id.Key,
		ContentHash:  hash,
		AddedAt:      subject.AddedAt(),
	})
}

// checkBatchRemote calls the remote client for a batched item check.
func (e *ValidationEngine) checkBatchRemote(ctx context.Context, parent domain.Subject, pending []driven.BatchCandidate) (*driven.BatchResult, error) {
	if e.remote == nil {
		return nil, fmt.Errorf("check item batch: %w: no client configured", domain.ErrRemoteUnavailable)
	}
	return e.remote.CheckRegularItemBatch(ctx, parent, pending)
}

// contentHash derives the hash to send remotely: the local hash when a
// local file exists, falling back to the last-known synced hash for
// remote-only files.
func (e *ValidationEngine) contentHash(ctx context.Context, subject domain.Subject) (string, error) {
	if e.hashes == nil {
		return "", domain.ErrHashUnavailable
	}
	if hash, err := e.hashes.LocalHash(ctx, subject); err == nil && hash != "" {
		return hash, nil
	}
	hash, err := e.hashes.SyncedHash(ctx, subject)
	if err != nil || hash == "" {
		return "", domain.ErrHashUnavailable
	}
	return hash, nil
}

// bestEffortLocalHash returns the local hash or "" when none is available.
func (e *ValidationEngine) bestEffortLocalHash(ctx context.Context, subject domain.Subject) string {
	if e.hashes == nil {
		return ""
	}
	hash, err := e.hashes.LocalHash(ctx, subject)
	if err != nil {
		return ""
	}
	return hash
}

// remoteReason maps a remote detail string to an invalidity reason.
func remoteReason(details string) string {
	if details == "" {
		return "File was not processed by the server"
	}
	return details
}
