package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrListRidersQueryIsNotConstructed = errors.New(
	"ListRidersQuery must be created via NewListRidersQuery constructor",
)

// ListRidersQuery lists the roster with the derived availability view.
type ListRidersQuery struct {
	guard guard.ConstructorGuard
}

func NewListRidersQuery() ListRidersQuery {
	return ListRidersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListRidersQuery) Validate() error {
	return q.guard.Validate(ErrListRidersQueryIsNotConstructed)
}
