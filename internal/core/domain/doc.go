// Package domain contains the core business entities of the validation
// engine: subjects, validation verdicts, cache keys and engine settings.
//
// This package has no dependencies on other internal packages.
// It defines the vocabulary used by ports, services, and adapters.
package domain
