// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FileStore: local/remote attachment file availability
//   - ContentHashProvider: local and last-synced content hashes
//   - SettingsProvider: engine configuration
//
// # Optional Interfaces
//
// These can be nil - the corresponding tier degrades:
//
//   - RemoteValidationClient: required only for BACKEND validation and
//     composite item validation
//   - DocumentAnalyser: required only for FRONTEND validation
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
