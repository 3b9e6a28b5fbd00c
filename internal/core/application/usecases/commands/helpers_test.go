package commands_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/catalog"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type uowFactory struct {
	inner *memory.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.inner.Create()
}

// gatedFactory parks the first Create until gate is closed.
type gatedFactory struct {
	inner   commands.UoWFactory
	entered chan struct{}
	gate    chan struct{}
	mu      sync.Mutex
	used    bool
}

func newGatedFactory(inner commands.UoWFactory) *gatedFactory {
	return &gatedFactory{inner: inner, entered: make(chan struct{}), gate: make(chan struct{})}
}

func (f *gatedFactory) Create() commands.UoW {
	f.mu.Lock()
	first := !f.used
	f.used = true
	f.mu.Unlock()

	if first {
		close(f.entered)
		<-f.gate
	}
	return f.inner.Create()
}

type fixture struct {
	store   *memory.Store
	uows    commands.UoWFactory
	riders  *memory.RiderDirectory
	catalog *catalog.Catalog
	runs    *memory.FlowRunStore
	now     time.Time
	seq     int
}

func newFixture(t *testing.T, riders ...*rider.Rider) *fixture {
	t.Helper()
	store := memory.NewStore()
	dir, err := memory.NewRiderDirectory(riders...)
	require.NoError(t, err)

	burger, err := product.NewProduct(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(500))
	require.NoError(t, err)
	rice, err := product.NewProduct(6, "Rice 5kg", order.CategoryGroceries, decimal.NewFromInt(300))
	require.NoError(t, err)
	cat, err := catalog.New(burger, rice)
	require.NoError(t, err)

	return &fixture{
		store:   store,
		uows:    uowFactory{inner: memory.NewUnitOfWorkFactory(store, nil, slog.Default())},
		riders:  dir,
		catalog: cat,
		runs:    memory.NewFlowRunStore(),
		now:     placedAt,
	}
}

func (f *fixture) clock() commands.Clock {
	return func() time.Time { return f.now }
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) redispatchHandler() commands.RunRedispatchSweepCommandHandler {
	return commands.NewRunRedispatchSweepCommandHandler(f.uows, 10*time.Minute, f.clock(), slog.Default())
}

func (f *fixture) batchHandler() commands.RunBatchDispatchCommandHandler {
	return commands.NewRunBatchDispatchCommandHandler(
		f.uows,
		f.riders,
		services.NewRiderMatcher(),
		services.NewSLAEvaluator(0, 0, services.DefaultScoreWeights()),
		f.redispatchHandler(),
		f.clock(),
		slog.Default(),
	)
}

func (f *fixture) assignHandler() commands.AssignRiderCommandHandler {
	return commands.NewAssignRiderCommandHandler(f.uows, f.riders, services.NewRiderMatcher(), f.clock())
}

// seed stores an order created at createdAt and walked through statuses.
func (f *fixture) seed(t *testing.T, createdAt time.Time, priority order.Priority, statuses ...order.Status) *order.Order {
	t.Helper()
	f.seq++
	item, err := order.NewItem(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(500), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(fmt.Sprintf("ORD-%04d", f.seq), "cust-1", order.ChannelWeb,
		[]order.Item{item}, kernel.ZoneCBD, priority, createdAt)
	require.NoError(t, err)
	for _, s := range statuses {
		require.NoError(t, o.Transition(s, createdAt))
	}
	require.NoError(t, f.store.Reader().Add(context.Background(), o))
	return o
}

func (f *fixture) seedReady(t *testing.T, createdAt time.Time, priority order.Priority) *order.Order {
	t.Helper()
	return f.seed(t, createdAt, priority, order.Confirmed, order.Preparing, order.ReadyForPickup)
}

// seedAssigned stores a ready order assigned to riderID at assignedAt.
func (f *fixture) seedAssigned(t *testing.T, riderID string, assignedAt time.Time) *order.Order {
	t.Helper()
	f.seq++
	item, err := order.NewItem(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(500), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(fmt.Sprintf("ORD-%04d", f.seq), "cust-1", order.ChannelWeb,
		[]order.Item{item}, kernel.ZoneCBD, order.PriorityNormal, placedAt)
	require.NoError(t, err)
	for _, s := range []order.Status{order.Confirmed, order.Preparing, order.ReadyForPickup} {
		require.NoError(t, o.Transition(s, placedAt))
	}
	require.NoError(t, o.Assign(riderID, assignedAt))
	require.NoError(t, f.store.Reader().Add(context.Background(), o))
	return o
}

func (f *fixture) get(t *testing.T, id string) *order.Order {
	t.Helper()
	o, err := f.store.Reader().Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (f *fixture) loads(t *testing.T) map[string]int {
	t.Helper()
	loads, err := f.store.Reader().ActiveLoads(context.Background())
	require.NoError(t, err)
	return loads
}

func newRider(t *testing.T, id string, zone kernel.Zone, capacity int, shiftStart, shiftEnd int) *rider.Rider {
	t.Helper()
	shift, err := rider.NewShift(shiftStart, shiftEnd)
	require.NoError(t, err)
	r, err := rider.NewRider(id, "Rider "+id, "", zone, shift, 30, capacity, 0.9)
	require.NoError(t, err)
	return r
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByStatus(ctx context.Context, statuses ...order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ActiveLoads(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}
