package jobs_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/jobs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type uowFactory struct {
	inner *memory.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.inner.Create()
}

type env struct {
	store *memory.Store
	batch commands.RunBatchDispatchCommandHandler
	flow  commands.RunFlowSweepCommandHandler
}

func newEnv(t *testing.T) env {
	t.Helper()
	shift, err := rider.NewShift(6, 22)
	require.NoError(t, err)
	r, err := rider.NewRider("r1", "Rider Alpha", "", kernel.ZoneCBD, shift, 32, 2, 0.96)
	require.NoError(t, err)
	roster, err := memory.NewRiderDirectory(r)
	require.NoError(t, err)

	store := memory.NewStore()
	uows := uowFactory{inner: memory.NewUnitOfWorkFactory(store, nil, slog.Default())}
	clock := commands.Clock(func() time.Time { return now })
	redispatch := commands.NewRunRedispatchSweepCommandHandler(uows, commands.DefaultAssignmentTimeout, clock, slog.Default())

	return env{
		store: store,
		batch: commands.NewRunBatchDispatchCommandHandler(
			uows,
			roster,
			services.NewRiderMatcher(),
			services.NewSLAEvaluator(0, 0, services.DefaultScoreWeights()),
			redispatch,
			clock,
			slog.Default(),
		),
		flow: commands.NewRunFlowSweepCommandHandler(uows, services.DefaultFlowPolicy(), memory.NewFlowRunStore(), clock, slog.Default()),
	}
}

func (e env) seed(t *testing.T, id string, createdAt time.Time, statuses ...order.Status) {
	t.Helper()
	item, err := order.NewItem(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(500), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(id, "cust-1", order.ChannelWeb, []order.Item{item}, kernel.ZoneCBD, order.PriorityNormal, createdAt)
	require.NoError(t, err)
	for _, s := range statuses {
		require.NoError(t, o.Transition(s, createdAt))
	}
	require.NoError(t, e.store.Reader().Add(context.Background(), o))
}

func (e env) status(t *testing.T, id string) order.Status {
	t.Helper()
	o, err := e.store.Reader().Get(context.Background(), id)
	require.NoError(t, err)
	return o.Status()
}

func TestDispatchJob_Run(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "ORD-1", now.Add(-time.Minute), order.Confirmed, order.Preparing, order.ReadyForPickup)
	job := jobs.NewDispatchJob(e.batch, time.Minute, 5, slog.Default())

	err := job.Run(t.Context())

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, e.status(t, "ORD-1"))
}

func TestFlowJob_Run(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "ORD-1", now.Add(-3*time.Minute))
	job := jobs.NewFlowJob(e.flow, time.Minute, slog.Default())

	err := job.Run(t.Context())

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, e.status(t, "ORD-1"))
}

func TestJobManager_StartAll(t *testing.T) {
	t.Run("should start and stop both jobs", func(t *testing.T) {
		e := newEnv(t)
		manager := jobs.NewJobManager(e.batch, e.flow, jobs.Schedule{
			DispatchInterval: time.Hour,
			BatchLimit:       5,
			FlowInterval:     time.Hour,
		}, slog.Default())

		require.NoError(t, manager.StartAll())
		manager.StopAll()
	})

	t.Run("should reject a non-positive interval", func(t *testing.T) {
		e := newEnv(t)
		manager := jobs.NewJobManager(e.batch, e.flow, jobs.Schedule{
			DispatchInterval: time.Hour,
			BatchLimit:       5,
		}, slog.Default())

		err := manager.StartAll()

		assert.ErrorIs(t, err, jobs.ErrIntervalIsInvalid)
		assert.ErrorContains(t, err, "flow job")
	})
}
