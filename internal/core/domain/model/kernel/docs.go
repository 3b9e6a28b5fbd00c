// Package kernel holds value objects shared by the order and rider aggregates:
// delivery zones with their centroid geometry, and UUIDs for domain events.
//
// Zone distances use the haversine formula between fixed zone centroids. This
// is an approximation: no road routing is attempted.
package kernel
