package queries

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPredictDispatchQueryIsNotConstructed = errors.New(
	"PredictDispatchQuery must be created via NewPredictDispatchQuery constructor",
)

// PredictDispatchQuery ranks every rider for one order without assigning.
type PredictDispatchQuery struct {
	orderID string
	guard   guard.ConstructorGuard
}

func NewPredictDispatchQuery(orderID string) (PredictDispatchQuery, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return PredictDispatchQuery{}, errs.NewValueIsRequiredError("orderId")
	}
	return PredictDispatchQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q PredictDispatchQuery) OrderID() string {
	return q.orderID
}

func (q PredictDispatchQuery) Validate() error {
	return q.guard.Validate(ErrPredictDispatchQueryIsNotConstructed)
}
