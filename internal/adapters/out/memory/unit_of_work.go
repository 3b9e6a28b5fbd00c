package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/adapters/out/tracking"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over one Store. All of them share
// a single mutex: only one unit of work is between Begin and Commit/Rollback
// at any time.
type UnitOfWorkFactory struct {
	store     *Store
	lock      *sync.Mutex
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewUnitOfWorkFactory wires a factory. publisher may be nil.
func NewUnitOfWorkFactory(store *Store, publisher ports.EventPublisher, logger *slog.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		store:     store,
		lock:      &sync.Mutex{},
		publisher: publisher,
		logger:    logger.With("component", "memory_uow"),
	}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{
		factory: f,
		staged:  make(map[string]order.Snapshot),
	}
}

// UnitOfWork stages order writes and applies them to the Store on Commit.
type UnitOfWork struct {
	factory *UnitOfWorkFactory
	staged  map[string]order.Snapshot
	tracker tracking.Tracker
	active  bool
}

// Begin enters the critical section. Calling it twice is a no-op.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	uow.factory.lock.Lock()
	uow.active = true
	return nil
}

// Commit applies staged writes, leaves the critical section and publishes
// the events of every tracked aggregate.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	uow.factory.store.apply(uow.staged)
	events := uow.tracker.DrainEvents()
	uow.finish()

	tracking.Publish(ctx, uow.factory.publisher, uow.factory.logger, events)
	return nil
}

// Rollback drops staged writes and leaves the critical section.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.tracker.Reset()
	uow.finish()
	return nil
}

func (uow *UnitOfWork) finish() {
	uow.staged = make(map[string]order.Snapshot)
	uow.active = false
	uow.factory.lock.Unlock()
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: uow.factory.store, uow: uow}
}
