package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func clock() queries.Clock {
	return func() time.Time { return now }
}

func sla() services.SLAEvaluator {
	return services.NewSLAEvaluator(0, 0, services.DefaultScoreWeights())
}

type orderSeeder struct {
	repo ports.OrderRepository
	seq  int
}

func newSeeder(repo ports.OrderRepository) *orderSeeder {
	return &orderSeeder{repo: repo}
}

// seed stores an order in zone, created at createdAt and walked through statuses.
func (s *orderSeeder) seed(
	t *testing.T,
	zone kernel.Zone,
	priority order.Priority,
	createdAt time.Time,
	statuses ...order.Status,
) *order.Order {
	t.Helper()
	s.seq++
	item, err := order.NewItem(2, "Pilau", order.CategoryFood, decimal.NewFromInt(250), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(fmt.Sprintf("ORD-%04d", s.seq), "cust-1", order.ChannelWeb,
		[]order.Item{item}, zone, priority, createdAt)
	require.NoError(t, err)
	for _, st := range statuses {
		require.NoError(t, o.Transition(st, createdAt))
	}
	require.NoError(t, s.repo.Add(context.Background(), o))
	return o
}

func (s *orderSeeder) seedReady(t *testing.T, priority order.Priority, createdAt time.Time) *order.Order {
	t.Helper()
	return s.seed(t, kernel.ZoneCBD, priority, createdAt, order.Confirmed, order.Preparing, order.ReadyForPickup)
}

func (s *orderSeeder) seedAssigned(t *testing.T, riderID string) *order.Order {
	t.Helper()
	s.seq++
	item, err := order.NewItem(2, "Pilau", order.CategoryFood, decimal.NewFromInt(250), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(fmt.Sprintf("ORD-%04d", s.seq), "cust-1", order.ChannelWeb,
		[]order.Item{item}, kernel.ZoneCBD, order.PriorityNormal, now)
	require.NoError(t, err)
	for _, st := range []order.Status{order.Confirmed, order.Preparing, order.ReadyForPickup} {
		require.NoError(t, o.Transition(st, now))
	}
	require.NoError(t, o.Assign(riderID, now))
	require.NoError(t, s.repo.Add(context.Background(), o))
	return o
}

func newMemoryStore() (*memory.Store, *orderSeeder) {
	store := memory.NewStore()
	return store, newSeeder(store.Reader())
}

func newRider(t *testing.T, id string, zone kernel.Zone, capacity, shiftStart, shiftEnd int) *rider.Rider {
	t.Helper()
	shift, err := rider.NewShift(shiftStart, shiftEnd)
	require.NoError(t, err)
	r, err := rider.NewRider(id, "Rider "+id, "", zone, shift, 30, capacity, 0.9)
	require.NoError(t, err)
	return r
}

func newRoster(t *testing.T, riders ...*rider.Rider) *memory.RiderDirectory {
	t.Helper()
	dir, err := memory.NewRiderDirectory(riders...)
	require.NoError(t, err)
	return dir
}
