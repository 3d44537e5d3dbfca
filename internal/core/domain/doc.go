// Package domain defines the core business entities for the detailing log.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: One detailing job (plate, service type, technician, hours, date)
//   - SummaryStats: Whole-table aggregates shown on the dashboard
//   - DurationStats / TechnicianStats: Pure reductions over entry sequences
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
