// Package product holds the catalog Product value object. Orders capture a
// product's name, category and price as an order.Item at placement time.
package product

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category order.Category  `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// NewProduct validates a catalog entry.
func NewProduct(id int, name string, category order.Category, price decimal.Decimal) (Product, error) {
	p := Product{ID: id, Name: strings.TrimSpace(name), Category: category, Price: price}

	var errList []error
	if p.ID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id)))
	}
	if p.Name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if p.Category == "" {
		errList = append(errList, errs.NewValueIsRequiredError("category"))
	}
	if p.Price.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price)))
	}
	if err := errors.Join(errList...); err != nil {
		return Product{}, err
	}
	return p, nil
}

// LineItem captures the product at its current price.
func (p Product) LineItem(quantity int) (order.Item, error) {
	return order.NewItem(p.ID, p.Name, p.Category, p.Price, quantity)
}
