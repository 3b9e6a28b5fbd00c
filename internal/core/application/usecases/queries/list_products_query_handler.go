package queries

import (
	"context"

	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/core/ports"
)

type ListProductsQueryHandler struct {
	catalog ports.Catalog
}

func NewListProductsQueryHandler(catalog ports.Catalog) ListProductsQueryHandler {
	return ListProductsQueryHandler{catalog: catalog}
}

func (h ListProductsQueryHandler) Handle(ctx context.Context, query ListProductsQuery) ([]product.Product, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.catalog.List(ctx)
}
