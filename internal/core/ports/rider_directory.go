package ports

import (
	"context"

	"dispatch/internal/core/domain/model/rider"
)

// RiderDirectory exposes the static rider roster.
type RiderDirectory interface {
	// List returns every rider ordered by identifier.
	List(ctx context.Context) ([]*rider.Rider, error)

	// Get returns a rider by identifier.
	// Returns errs.ObjectNotFoundError for unknown riders.
	Get(ctx context.Context, id string) (*rider.Rider, error)
}
