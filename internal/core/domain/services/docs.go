// Package services provides domain services that work across the order and
// rider aggregates.
//
// The package includes:
//   - SLAEvaluator: priority score and SLA breach flag for an order at a point in time
//   - RiderMatcher: ranking of riders for an order and validation of manual picks
//
// Both services are pure. They read aggregates and return values; the
// application layer applies the outcome inside a unit of work.
package services
