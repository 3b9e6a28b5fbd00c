// Package catalog serves the product list from memory.
package catalog

import (
	"context"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type entry struct {
	id       int
	name     string
	price    int64
	category order.Category
}

var defaultEntries = []entry{
	{1, "Burger Combo", 850, order.CategoryFood},
	{2, "Pepperoni Pizza", 1200, order.CategoryFood},
	{3, "Chicken Wings", 950, order.CategoryFood},
	{4, "Beef Tacos", 780, order.CategoryFood},
	{5, "Pasta Alfredo", 1100, order.CategoryFood},
	{6, "Rice 5kg", 950, order.CategoryGroceries},
	{7, "Maize Flour 2kg", 210, order.CategoryGroceries},
	{8, "Cooking Oil 1L", 320, order.CategoryGroceries},
	{9, "Milk 500ml", 65, order.CategoryGroceries},
	{10, "Eggs Tray", 450, order.CategoryGroceries},
	{11, "Luxury Villa Night", 15000, order.CategoryAirbnb},
	{12, "City Apartment Night", 8500, order.CategoryAirbnb},
	{13, "Beach Studio Apartment", 3000, order.CategoryAirbnb},
	{14, "Courier Delivery", 300, order.CategoryErrands},
	{15, "Package Pickup", 300, order.CategoryErrands},
	{16, "Personal Shopper", 300, order.CategoryErrands},
}

// Catalog is an immutable product list.
type Catalog struct {
	products []product.Product
	byID     map[int]product.Product
}

// New builds a catalog from products, rejecting duplicate ids.
func New(products ...product.Product) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]product.Product, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("products", fmt.Errorf("duplicate product id %d", p.ID))
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}
	slices.SortFunc(c.products, func(a, b product.Product) int { return a.ID - b.ID })
	return c, nil
}

// Default returns the standard storefront catalog.
func Default() (*Catalog, error) {
	products := make([]product.Product, 0, len(defaultEntries))
	for _, e := range defaultEntries {
		p, err := product.NewProduct(e.id, e.name, e.category, decimal.NewFromInt(e.price))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return New(products...)
}

func (c *Catalog) List(_ context.Context) ([]product.Product, error) {
	return slices.Clone(c.products), nil
}

func (c *Catalog) Get(_ context.Context, id int) (product.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return product.Product{}, errs.NewObjectNotFoundError("product", id)
	}
	return p, nil
}
