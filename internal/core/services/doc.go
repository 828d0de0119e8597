// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The validation cache and the in-flight registry live here and are only
// ever touched by the engine; no external synchronisation contract is
// required beyond one engine instance per execution context.
package services
