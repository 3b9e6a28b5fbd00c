package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

// DefaultBatchLimit caps the orders handled by one batch dispatch.
const DefaultBatchLimit = 5

var ErrRunBatchDispatchCommandIsNotConstructed = errors.New(
	"RunBatchDispatchCommand must be created via NewRunBatchDispatchCommand constructor",
)

// RunBatchDispatchCommand triggers a redispatch sweep followed by
// assignment of the top ranked ready orders.
type RunBatchDispatchCommand struct {
	limit int

	guard guard.ConstructorGuard
}

// NewRunBatchDispatchCommand uses DefaultBatchLimit for limit <= 0.
func NewRunBatchDispatchCommand(limit int) RunBatchDispatchCommand {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return RunBatchDispatchCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

func (c RunBatchDispatchCommand) Validate() error {
	return c.guard.Validate(ErrRunBatchDispatchCommandIsNotConstructed)
}

func (c RunBatchDispatchCommand) Limit() int {
	return c.limit
}
