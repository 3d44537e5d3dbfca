// Package driven defines interfaces for infrastructure the core depends
// on: entry persistence and photo file storage. These are the "driven"
// ports in hexagonal architecture terminology - the application drives
// them.
//
// Implementations live in internal/adapters/driven.
package driven
