// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TokenProvider: Bearer tokens for the catalog API
//   - ChartSource: Scrapes the weekly chart into candidates
//   - Catalog: Track search and audio-feature lookup
//   - ChartStore: Relational persistence of entries and feature vectors
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the pipeline skips the matching report step:
//
//   - StatsWriter: Writes the averages text report
//   - ChartRenderer: Renders the scatter and top-artist collaborators
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
