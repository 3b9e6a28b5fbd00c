// Package ports defines the contracts between the dispatch core and its
// adapters: the order store and its unit of work, the rider roster, the
// product catalog and the event publisher.
package ports
