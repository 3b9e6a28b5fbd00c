package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

// DefaultDispatchQueueLimit caps the queue view when no limit is given.
const DefaultDispatchQueueLimit = 20

var ErrListDispatchQueueQueryIsNotConstructed = errors.New(
	"ListDispatchQueueQuery must be created via NewListDispatchQueueQuery constructor",
)

// ListDispatchQueueQuery previews the pending pool in the order the next
// batch would take it.
type ListDispatchQueueQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewListDispatchQueueQuery falls back to DefaultDispatchQueueLimit for a
// non-positive limit.
func NewListDispatchQueueQuery(limit int) ListDispatchQueueQuery {
	if limit <= 0 {
		limit = DefaultDispatchQueueLimit
	}
	return ListDispatchQueueQuery{limit: limit, guard: guard.NewConstructorGuard()}
}

func (q ListDispatchQueueQuery) Limit() int {
	return q.limit
}

func (q ListDispatchQueueQuery) Validate() error {
	return q.guard.Validate(ErrListDispatchQueueQueryIsNotConstructed)
}
