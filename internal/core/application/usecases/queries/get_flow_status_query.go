package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetFlowStatusQueryIsNotConstructed = errors.New(
	"GetFlowStatusQuery must be created via NewGetFlowStatusQuery constructor",
)

// GetFlowStatusQuery reads the auto flow configuration and last run.
type GetFlowStatusQuery struct {
	guard guard.ConstructorGuard
}

func NewGetFlowStatusQuery() GetFlowStatusQuery {
	return GetFlowStatusQuery{guard: guard.NewConstructorGuard()}
}

func (q GetFlowStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetFlowStatusQueryIsNotConstructed)
}
