// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline runs scrape, store, resolve, attach and aggregate in that
// order. Resolution fans out over a bounded worker pool; every store write
// happens on the calling goroutine.
package services
