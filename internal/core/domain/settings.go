package domain

import "time"

// Default engine settings.
const (
	// DefaultCacheTTL is the default lifetime of a cache entry.
	DefaultCacheTTL = 30 * time.Minute

	// DefaultMaxCacheEntries bounds the cache size.
	DefaultMaxCacheEntries = 1000

	// DefaultMaxFileSizeMB is the attachment size limit in megabytes.
	DefaultMaxFileSizeMB = 50

	// DefaultMaxPageCount is the attachment page count limit.
	DefaultMaxPageCount = 500
)

// EngineSettings holds validation engine configuration.
type EngineSettings struct {
	// CacheTTL is the maximum age of a cache entry before it expires.
	CacheTTL time.Duration

	// MaxCacheEntries bounds the number of cached verdicts. Oldest entries
	// are evicted first once the bound is exceeded.
	MaxCacheEntries int

	// MaxFileSizeMB is the attachment size limit in megabytes.
	MaxFileSizeMB int64

	// MaxPageCount is the attachment page count limit.
	MaxPageCount int

	// EnabledCollections restricts validation to the listed collections.
	// Empty means every collection is enabled.
	EnabledCollections []int64
}

// DefaultEngineSettings returns settings with sensible defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		CacheTTL:        DefaultCacheTTL,
		MaxCacheEntries: DefaultMaxCacheEntries,
		MaxFileSizeMB:   DefaultMaxFileSizeMB,
		MaxPageCount:    DefaultMaxPageCount,
	}
}

// Normalise replaces zero or negative values with defaults.
func (s EngineSettings) Normalise() EngineSettings {
	if s.CacheTTL <= 0 {
		s.CacheTTL = DefaultCacheTTL
	}
	if s.MaxCacheEntries <= 0 {
		s.MaxCacheEntries = DefaultMaxCacheEntries
	}
	if s.MaxFileSizeMB <= 0 {
		s.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if s.MaxPageCount <= 0 {
		s.MaxPageCount = DefaultMaxPageCount
	}
	return s
}

// MaxFileSizeBytes returns the attachment size limit in bytes.
func (s EngineSettings) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// CollectionEnabled reports whether a collection may be validated.
// An empty enabled set means all collections are enabled.
func (s EngineSettings) CollectionEnabled(collectionID int64) bool {
	if len(s.EnabledCollections) == 0 {
		return true
	}
	for _, id := range s.EnabledCollections {
		if id == collectionID {
			return true
		}
	}
	return false
}
