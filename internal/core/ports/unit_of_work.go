package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
//
// Between Begin and Commit/Rollback the unit of work holds the store's
// critical section, so read-modify-write sequences on orders never
// interleave. Events recorded by aggregates written through the unit of
// work are published after a successful Commit.
type UnitOfWork interface {
	// Begin starts a new transaction and enters the critical section.
	Begin(ctx context.Context) error

	// Commit commits the current transaction, leaves the critical section
	// and publishes pending domain events.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction and leaves the critical section.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository
}
