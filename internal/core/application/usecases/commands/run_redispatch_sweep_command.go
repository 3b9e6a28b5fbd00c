package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRunRedispatchSweepCommandIsNotConstructed = errors.New(
	"RunRedispatchSweepCommand must be created via NewRunRedispatchSweepCommand constructor",
)

// RunRedispatchSweepCommand releases every assignment older than the
// configured timeout. This is a parameterless command.
type RunRedispatchSweepCommand struct {
	guard guard.ConstructorGuard
}

func NewRunRedispatchSweepCommand() RunRedispatchSweepCommand {
	return RunRedispatchSweepCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c RunRedispatchSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunRedispatchSweepCommandIsNotConstructed)
}
