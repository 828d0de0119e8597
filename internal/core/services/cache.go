package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
	"github.com/refstack-labs/refcheck/internal/logger"
)

// validationTypes lists every cache tier a subject can have entries under.
var validationTypes = []domain.ValidationType{
	domain.TypeLocalOnly,
	domain.TypeBackend,
	domain.TypeCached,
	domain.TypeFrontend,
}

// ValidationCache stores validation verdicts keyed by (subject, type).
// Entries expire by TTL, are invalidated by content-hash changes, and the
// cache is size-bound with oldest-first eviction. Not persisted.
type ValidationCache struct {
	mu      sync.Mutex
	entries map[domain.CacheKey]domain.CacheEntry

	settings driven.SettingsProvider
	hashes   driven.ContentHashProvider

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewValidationCache creates an empty validation cache.
// The hash provider is optional; without it hash staleness checks are
// skipped and entries expire by TTL alone.
func NewValidationCache(settings driven.SettingsProvider, hashes driven.ContentHashProvider) *ValidationCache {
	return &ValidationCache{
		entries:  make(map[domain.CacheKey]domain.CacheEntry),
		settings: settings,
		hashes:   hashes,
		now:      time.Now,
	}
}

// Get returns the raw entry for a key without checking validity.
func (c *ValidationCache) Get(key domain.CacheKey) (domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// IsValid reports whether an entry is a usable hit: younger than the TTL,
// and not contradicted by the subject's current content hash. The hash
// check only applies when both the stored and the current hash are known.
func (c *ValidationCache) IsValid(entry domain.CacheEntry, currentHash string) bool {
	if c.now().Sub(entry.Timestamp) >= c.settings.Settings().CacheTTL {
		return false
	}
	if currentHash != "" && entry.ContentHash != "" && currentHash != entry.ContentHash {
		return false
	}
	return true
}

// GetIfValid looks up the entry for a subject and validation type, checks it
// against the TTL and the subject's current content hash, and on a hit
// refreshes the timestamp to extend the entry's life. Hash lookup failures
// are treated as "no hash available". Returns nil on a miss.
func (c *ValidationCache) GetIfValid(ctx context.Context, subject domain.Subject, vtype domain.ValidationType) *domain.CacheEntry {
	key := domain.NewCacheKey(subject.ID(), vtype)

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	// Best-effort current hash; the lookup may read the file, so it runs
	// outside the lock.
	currentHash := c.currentHash(ctx, subject)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-fetch: the entry may have been invalidated during the hash lookup.
	entry, ok = c.entries[key]
	if !ok || !c.IsValid(entry, currentHash) {
		return nil
	}

	entry.Timestamp = c.now()
	c.entries[key] = entry
	return &entry
}

// Set stores a verdict for a subject and validation type, stamping the
// current time. Inserting past the size bound evicts the oldest entries.
func (c *ValidationCache) Set(id domain.SubjectID, vtype domain.ValidationType, result domain.Result, contentHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[domain.NewCacheKey(id, vtype)] = domain.CacheEntry{
		Result:      result,
		Timestamp:   c.now(),
		ContentHash: contentHash,
	}
	c.evictLocked()
}

// Invalidate removes entries for every validation type of the subject.
// State changes such as a replaced file can affect every tier.
func (c *ValidationCache) Invalidate(id domain.SubjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, vtype := range validationTypes {
		delete(c.entries, domain.NewCacheKey(id, vtype))
	}
}

// Clear drops every entry.
func (c *ValidationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.CacheKey]domain.CacheEntry)
}

// Sweep removes expired entries and trims the cache down to the configured
// size bound. Called opportunistically before cache-dependent operations.
func (c *ValidationCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.settings.Settings().CacheTTL
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.Timestamp) >= ttl {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("cache sweep removed %d expired entries", removed)
	}
	c.evictLocked()
}

// Len returns the number of cached entries.
func (c *ValidationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked trims oldest-by-timestamp entries until the size bound holds.
// Caller must hold the lock.
func (c *ValidationCache) evictLocked() {
	max := c.settings.Settings().MaxCacheEntries
	if max <= 0 || len(c.entries) <= max {
		return
	}

	type aged struct {
		key domain.CacheKey
		ts  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, entry := range c.entries {
		all = append(all, aged{key: key, ts: entry.Timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts.Before(all[j].ts) })

	for _, candidate := range all[:len(c.entries)-max] {
		delete(c.entries, candidate.key)
	}
}

// currentHash returns the subject's current local content hash, or "" when
// none can be derived.
func (c *ValidationCache) currentHash(ctx context.Context, subject domain.Subject) string {
	if c.hashes == nil {
		return ""
	}
	hash, err := c.hashes.LocalHash(ctx, subject)
	if err != nil {
		return ""
	}
	return hash
}
