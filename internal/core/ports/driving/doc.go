// Package driving defines the interfaces callers use to drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Host applications (UI panels, schedulers, pipelines) depend on these
// interfaces, and core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
