// Package services implements the driving ports: entry lifecycle,
// report aggregation, export rendering, and the optional retention
// purge. Services hold no storage logic of their own; they validate,
// normalise, and orchestrate across the driven ports.
package services
