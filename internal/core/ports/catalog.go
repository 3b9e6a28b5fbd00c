package ports

import (
	"context"

	"dispatch/internal/core/domain/model/product"
)

// Catalog exposes the products customers can order.
type Catalog interface {
	// List returns every product ordered by identifier.
	List(ctx context.Context) ([]product.Product, error)

	// Get returns a product by identifier.
	// Returns errs.ObjectNotFoundError for unknown products.
	Get(ctx context.Context, id int) (product.Product, error)
}
