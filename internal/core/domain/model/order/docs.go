// Package order holds the Order aggregate root and the fulfillment state machine.
//
// The package includes:
//   - Order: identity, line items and total, rider reference, dispatch counters
//   - Status: the ten-state lifecycle and its transition table
//   - Priority, Channel, Item: value objects captured at placement
//   - Snapshot and Event: detached state for stores and the realtime feed
//
// Key business rules:
//   - An order needs at least one item; prices are fixed at placement
//   - Status changes follow the transition table; repeating a status is an error
//   - Riders are attached only through Assign and detached only through Redispatch
//   - Delivered orders complete when the customer presents the delivery code
package order
