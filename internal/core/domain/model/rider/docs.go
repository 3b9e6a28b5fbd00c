// Package rider provides the Rider aggregate for the static courier roster.
//
// The package includes:
//   - Rider: identity, base zone, shift window, speed, capacity and acceptance rate
//   - Shift: a daily hour window that may wrap past midnight
//   - Status: the derived AVAILABLE / BUSY / OFF_SHIFT view
//
// Key business rules:
//   - A rider is on shift when the local hour is inside [start, end), wrapping when start > end
//   - A rider is BUSY once its active load reaches maxActiveOrders
//   - Status is computed on demand from the order store's load figures and never persisted
package rider
