package services

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/refstack-labs/refcheck/internal/core/domain"
)

// InflightRegistry deduplicates concurrent validations sharing a cache key.
// At most one computation runs per key; overlapping callers attach to the
// in-flight call and receive the identical result or error. A handle leaves
// the registry when the underlying call settles.
type InflightRegistry struct {
	group singleflight.Group

	mu   sync.Mutex
	keys map[string]int
}

// NewInflightRegistry creates an empty registry.
func NewInflightRegistry() *InflightRegistry {
	return &InflightRegistry{keys: make(map[string]int)}
}

// Do runs fn under the key, or joins the in-flight call for the same key.
// The shared return reports whether the result was given to more than one
// caller.
func (r *InflightRegistry) Do(key domain.CacheKey, fn func() (domain.Result, error)) (result domain.Result, err error, shared bool) {
	k := key.String()

	r.track(k)
	defer r.untrack(k)

	value, err, shared := r.group.Do(k, func() (any, error) {
		return fn()
	})
	if err != nil {
		return domain.Result{}, err, shared
	}
	return value.(domain.Result), nil, shared
}

// Forget detaches the key from any in-flight call. Subsequent Do calls
// start a fresh computation instead of joining the old one.
func (r *InflightRegistry) Forget(key domain.CacheKey) {
	r.group.Forget(key.String())
}

// Clear forgets every tracked in-flight handle. Calls already running are
// not cancelled; their waiters still receive the outcome.
func (r *InflightRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.keys {
		r.group.Forget(k)
	}
}

// Len returns the number of keys with callers currently attached.
func (r *InflightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func (r *InflightRegistry) track(k string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k]++
}

func (r *InflightRegistry) untrack(k string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k]--
	if r.keys[k] <= 0 {
		delete(r.keys, k)
	}
}
