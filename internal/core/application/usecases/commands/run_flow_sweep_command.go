package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRunFlowSweepCommandIsNotConstructed = errors.New(
	"RunFlowSweepCommand must be created via NewRunFlowSweepCommand constructor",
)

// RunFlowSweepCommand advances kitchen-side orders whose milestones have
// elapsed. force runs the sweep even when another one is in flight.
type RunFlowSweepCommand struct {
	force bool

	guard guard.ConstructorGuard
}

func NewRunFlowSweepCommand(force bool) RunFlowSweepCommand {
	return RunFlowSweepCommand{
		force: force,
		guard: guard.NewConstructorGuard(),
	}
}

func (c RunFlowSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunFlowSweepCommandIsNotConstructed)
}

func (c RunFlowSweepCommand) Force() bool {
	return c.force
}
