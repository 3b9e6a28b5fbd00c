// Package memory is the in-process order store used when no database is
// configured, and by use-case tests. It also hosts the static rider roster.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Store keeps committed order snapshots keyed by id. Aggregates are rebuilt
// on every read, so callers never share mutable state with the store.
type Store struct {
	mu     sync.RWMutex
	orders map[string]order.Snapshot
}

func NewStore() *Store {
	return &Store{orders: make(map[string]order.Snapshot)}
}

// Reader returns a read-only view of committed orders for query handlers.
func (s *Store) Reader() *OrderRepository {
	return &OrderRepository{store: s}
}

func (s *Store) snapshot(id string) (order.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.orders[id]
	return snap, ok
}

func (s *Store) snapshots() map[string]order.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]order.Snapshot, len(s.orders))
	for id, snap := range s.orders {
		out[id] = snap
	}
	return out
}

func (s *Store) apply(staged map[string]order.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range staged {
		s.orders[id] = snap
	}
}

// OrderRepository reads committed orders overlaid with the writes staged in
// its unit of work. Without a unit of work it is a plain reader.
type OrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.lookup(aggregate.ID()); exists {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("order %s already exists", aggregate.ID()))
	}
	r.stage(aggregate)
	return nil
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.lookup(aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	r.stage(aggregate)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (*order.Order, error) {
	snap, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(snap)
}

func (r *OrderRepository) List(_ context.Context) ([]*order.Order, error) {
	snaps := r.all()
	slices.SortFunc(snaps, func(a, b order.Snapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return restoreAll(snaps)
}

func (r *OrderRepository) ListByStatus(_ context.Context, statuses ...order.Status) ([]*order.Order, error) {
	snaps := slices.DeleteFunc(r.all(), func(s order.Snapshot) bool {
		return !slices.Contains(statuses, s.Status)
	})
	slices.SortFunc(snaps, func(a, b order.Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return restoreAll(snaps)
}

func (r *OrderRepository) ActiveLoads(_ context.Context) (map[string]int, error) {
	loads := make(map[string]int)
	for _, s := range r.all() {
		if s.RiderID != nil && s.Status.HoldsRider() {
			loads[*s.RiderID]++
		}
	}
	return loads, nil
}

func (r *OrderRepository) lookup(id string) (order.Snapshot, bool) {
	if r.uow != nil {
		if snap, ok := r.uow.staged[id]; ok {
			return snap, true
		}
	}
	return r.store.snapshot(id)
}

func (r *OrderRepository) all() []order.Snapshot {
	merged := r.store.snapshots()
	if r.uow != nil {
		for id, snap := range r.uow.staged {
			merged[id] = snap
		}
	}
	out := make([]order.Snapshot, 0, len(merged))
	for _, snap := range merged {
		out = append(out, snap)
	}
	return out
}

func (r *OrderRepository) stage(aggregate *order.Order) {
	snap := aggregate.Snapshot()
	if r.uow == nil || !r.uow.active {
		r.store.apply(map[string]order.Snapshot{snap.ID: snap})
		return
	}
	r.uow.staged[snap.ID] = snap
	r.uow.tracker.TrackAggregate(aggregate)
}

func restoreAll(snaps []order.Snapshot) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(snaps))
	for _, snap := range snaps {
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
