// Package sqlstore provides a GORM-based implementation of the Unit of Work
// pattern over PostgreSQL or MySQL.
//
// Every unit of work created by one factory shares a mutex that is held from
// Begin to Commit/Rollback. Dispatch reads rider loads and then writes an
// assignment; the mutex keeps those read-modify-write sequences from
// interleaving within one process.
//
// Usage:
//
//	factory := sqlstore.NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Domain events recorded by aggregates written through the unit of work are
// published after the transaction commits and the mutex is released.
package sqlstore

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/adapters/out/sqlstore/orderrepo"
	"dispatch/internal/adapters/out/tracking"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using one GORM
// connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	lock      *sync.Mutex
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. publisher may be nil.
//
// Example:
//
//	db, err := sqlstore.Open("postgres", dsn)
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := sqlstore.NewGormUnitOfWorkFactory(db, publisher, logger)
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		lock:      &sync.Mutex{},
		publisher: publisher,
		logger:    logger.With("component", "sql_uow"),
	}
}

// Create produces a new UnitOfWork with its own transaction state and
// aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{factory: f}
}

// GormUnitOfWork coordinates one database transaction and tracks the order
// aggregates written through it.
type GormUnitOfWork struct {
	factory *GormUnitOfWorkFactory
	tx      *gorm.DB
	tracker tracking.Tracker
}

// Begin enters the critical section and opens a transaction. Multiple calls
// on the same instance are safe and do not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.factory.lock.Lock()
	tx := uow.factory.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		uow.factory.lock.Unlock()
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit finalizes the transaction, leaves the critical section and
// publishes the events of every tracked aggregate. Events are dropped when
// the commit fails.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	events := uow.tracker.DrainEvents()
	uow.finish()
	if err != nil {
		return err
	}

	tracking.Publish(ctx, uow.factory.publisher, uow.factory.logger, events)
	return nil
}

// Rollback discards the transaction and leaves the critical section.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tracker.Reset()
	uow.finish()
	return err
}

// OrderRepository provides access to order persistence. Operations run
// inside the current transaction when one is active, otherwise directly on
// the connection pool.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.factory.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, &uow.tracker)
}

func (uow *GormUnitOfWork) finish() {
	uow.tx = nil
	uow.factory.lock.Unlock()
}
