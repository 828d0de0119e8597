package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsProvider = (*SettingsStore)(nil)

// fileSettings is the TOML form of the engine settings.
type fileSettings struct {
	CacheTTLMs         int64   `toml:"cache_ttl_ms"`
	MaxCacheEntries    int     `toml:"max_cache_entries"`
	MaxFileSizeMB      int64   `toml:"max_file_size_mb"`
	MaxPageCount       int     `toml:"max_page_count"`
	EnabledCollections []int64 `toml:"enabled_collections"`
}

// SettingsStore is a file-based implementation of driven.SettingsProvider
// using TOML. Missing keys fall back to the engine defaults.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.EngineSettings
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.refcheck/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".refcheck")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: domain.DefaultEngineSettings(),
	}

	// Load existing data if file exists
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Settings returns the current engine settings.
func (s *SettingsStore) Settings() domain.EngineSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings and persists immediately.
func (s *SettingsStore) SetSettings(settings domain.EngineSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Normalise()
	return s.save()
}

// Load reads settings from the TOML file. A missing file leaves defaults
// in place.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, keep defaults
			return nil
		}
		return err
	}

	var loaded fileSettings
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.settings = domain.EngineSettings{
		CacheTTL:           time.Duration(loaded.CacheTTLMs) * time.Millisecond,
		MaxCacheEntries:    loaded.MaxCacheEntries,
		MaxFileSizeMB:      loaded.MaxFileSizeMB,
		MaxPageCount:       loaded.MaxPageCount,
		EnabledCollections: loaded.EnabledCollections,
	}.Normalise()
	return nil
}

// Save persists the current settings to disk.
func (s *SettingsStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes settings to the TOML file (caller must hold lock).
func (s *SettingsStore) save() error {
	out := fileSettings{
		CacheTTLMs:         s.settings.CacheTTL.Milliseconds(),
		MaxCacheEntries:    s.settings.MaxCacheEntries,
		MaxFileSizeMB:      s.settings.MaxFileSizeMB,
		MaxPageCount:       s.settings.MaxPageCount,
		EnabledCollections: s.settings.EnabledCollections,
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
