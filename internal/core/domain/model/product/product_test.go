package product_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("should build a line item at the catalog price", func(t *testing.T) {
		p, err := product.NewProduct(2, "Pepperoni Pizza", order.CategoryFood, decimal.NewFromInt(1200))
		require.NoError(t, err)

		item, err := p.LineItem(2)

		require.NoError(t, err)
		assert.Equal(t, 2, item.ProductID)
		assert.Equal(t, "Pepperoni Pizza", item.Name)
		assert.Equal(t, order.CategoryFood, item.Category)
		assert.Equal(t, "2400", item.LineTotal().String())
	})

	t.Run("should reject a zero quantity line", func(t *testing.T) {
		p, err := product.NewProduct(2, "Pepperoni Pizza", order.CategoryFood, decimal.NewFromInt(1200))
		require.NoError(t, err)

		_, err = p.LineItem(0)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := product.NewProduct(0, " ", "", decimal.NewFromInt(-5))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "price")
		assert.Contains(t, err.Error(), "category")
	})
}
