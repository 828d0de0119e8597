package driven

import "github.com/refstack-labs/refcheck/internal/core/domain"

// SettingsProvider supplies the current engine settings.
// Implementations may re-read configuration between calls; the engine
// consults the provider per operation rather than caching settings.
type SettingsProvider interface {
	// Settings returns the current engine settings.
	Settings() domain.EngineSettings
}
