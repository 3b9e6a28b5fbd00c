package order

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Category groups catalog products; it drives the service time estimate.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryGroceries Category = "groceries"
	CategoryAirbnb    Category = "airbnb"
	CategoryErrands   Category = "errands"
	CategoryGeneral   Category = "general"
)

// Item is an order line. Name, category and unit price are captured from
// the catalog when the order is placed and never change afterwards.
type Item struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"qty"`
}

// NewItem validates and builds an order line. A blank category becomes CategoryGeneral.
func NewItem(productID int, name string, category Category, unitPrice decimal.Decimal, quantity int) (Item, error) {
	if category == "" {
		category = CategoryGeneral
	}
	item := Item{
		ProductID: productID,
		Name:      strings.TrimSpace(name),
		Category:  category,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (i Item) Validate() error {
	var errList []error
	if i.ProductID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("productId",
			fmt.Errorf("%d is not greater than 0", i.ProductID)))
	}
	if i.Name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if i.UnitPrice.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%s is negative", i.UnitPrice)))
	}
	if i.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", i.Quantity)))
	}
	return errors.Join(errList...)
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalOf sums the line totals.
func TotalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
