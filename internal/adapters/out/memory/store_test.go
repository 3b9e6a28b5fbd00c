package memory_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events ...order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var base = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, id string, createdAt time.Time) *order.Order {
	t.Helper()
	item, err := order.NewItem(1, "Rice 5kg", order.CategoryGroceries, decimal.NewFromInt(950), 1)
	require.NoError(t, err)
	o, err := order.NewOrder(id, "c", order.ChannelWeb, []order.Item{item}, kernel.ZoneCBD, order.PriorityNormal, createdAt)
	require.NoError(t, err)
	return o
}

type UnitOfWorkTestSuite struct {
	suite.Suite
	store     *memory.Store
	publisher *MockPublisher
	factory   *memory.UnitOfWorkFactory
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.store = memory.NewStore()
	s.publisher = new(MockPublisher)
	s.factory = memory.NewUnitOfWorkFactory(s.store, s.publisher, slog.Default())
}

func (s *UnitOfWorkTestSuite) add(o *order.Order) {
	ctx := s.T().Context()
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, o))
	s.Require().NoError(uow.Commit(ctx))
}

func (s *UnitOfWorkTestSuite) TestCommit_AppliesAndPublishes() {
	ctx := s.T().Context()
	o := newOrder(s.T(), "ORD-1", base)
	s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []order.Event) bool {
		return len(events) == 1 && events[0].Type == order.EventNewOrder
	})).Return(nil).Once()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, o))

	_, err := s.store.Reader().Get(ctx, "ORD-1")
	s.Require().ErrorIs(err, errs.ErrObjectNotFound, "staged writes must stay invisible before commit")

	s.Require().NoError(uow.Commit(ctx))

	got, err := s.store.Reader().Get(ctx, "ORD-1")
	s.Require().NoError(err)
	s.Equal(o.Snapshot(), got.Snapshot())
	s.publisher.AssertExpectations(s.T())
}

func (s *UnitOfWorkTestSuite) TestRollback_DiscardsWrites() {
	ctx := s.T().Context()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, newOrder(s.T(), "ORD-1", base)))

	s.Require().NoError(uow.Rollback(ctx))

	_, err := s.store.Reader().Get(ctx, "ORD-1")
	s.ErrorIs(err, errs.ErrObjectNotFound)
	s.ErrorIs(uow.Rollback(ctx), memory.ErrNoActiveTransaction)
	s.ErrorIs(uow.Commit(ctx), memory.ErrNoActiveTransaction)
	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)
}

func (s *UnitOfWorkTestSuite) TestCommit_IgnoresPublisherFailure() {
	ctx := s.T().Context()
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("down")).Once()

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, newOrder(s.T(), "ORD-1", base)))

	s.NoError(uow.Commit(ctx))
}

func (s *UnitOfWorkTestSuite) TestRepository_ReadsStagedWrites() {
	ctx := s.T().Context()
	s.add(newOrder(s.T(), "ORD-1", base))

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, "ORD-1")
	s.Require().NoError(err)
	s.Require().NoError(o.Transition(order.Confirmed, base))
	s.Require().NoError(repo.Update(ctx, o))

	again, err := repo.Get(ctx, "ORD-1")
	s.Require().NoError(err)
	s.Equal(order.Confirmed, again.Status())

	committed, err := s.store.Reader().Get(ctx, "ORD-1")
	s.Require().NoError(err)
	s.Equal(order.Created, committed.Status())
}

func (s *UnitOfWorkTestSuite) TestRepository_RejectsDuplicatesAndMissing() {
	ctx := s.T().Context()
	s.add(newOrder(s.T(), "ORD-1", base))

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	err := uow.OrderRepository().Add(ctx, newOrder(s.T(), "ORD-1", base))
	s.ErrorIs(err, errs.ErrValueIsInvalid)

	err = uow.OrderRepository().Update(ctx, newOrder(s.T(), "ORD-404", base))
	s.ErrorIs(err, errs.ErrObjectNotFound)

	err = uow.OrderRepository().Add(ctx, &order.Order{})
	s.ErrorIs(err, order.ErrOrderIsNotConstructed)
}

func (s *UnitOfWorkTestSuite) TestRepository_Ordering() {
	ctx := s.T().Context()
	s.add(newOrder(s.T(), "ORD-2", base.Add(time.Minute)))
	s.add(newOrder(s.T(), "ORD-1", base))
	s.add(newOrder(s.T(), "ORD-3", base.Add(2*time.Minute)))

	all, err := s.store.Reader().List(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"ORD-3", "ORD-2", "ORD-1"}, ids(all))

	created, err := s.store.Reader().ListByStatus(ctx, order.Created, order.Confirmed)
	s.Require().NoError(err)
	s.Equal([]string{"ORD-1", "ORD-2", "ORD-3"}, ids(created))

	none, err := s.store.Reader().ListByStatus(ctx, order.Delivered)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *UnitOfWorkTestSuite) TestRepository_ActiveLoads() {
	ctx := s.T().Context()
	for i, rider := range []string{"r1", "r1", "r2"} {
		o := newOrder(s.T(), fmt.Sprintf("ORD-%d", i), base)
		for _, st := range []order.Status{order.Confirmed, order.Preparing, order.ReadyForPickup} {
			s.Require().NoError(o.Transition(st, base))
		}
		s.Require().NoError(o.Assign(rider, base))
		if i == 2 {
			s.Require().NoError(o.Transition(order.Cancelled, base))
		}
		s.add(o)
	}

	loads, err := s.store.Reader().ActiveLoads(ctx)

	s.Require().NoError(err)
	s.Equal(map[string]int{"r1": 2}, loads)
}

func (s *UnitOfWorkTestSuite) TestBegin_SerializesUnitsOfWork() {
	ctx := s.T().Context()
	first := s.factory.Create()
	s.Require().NoError(first.Begin(ctx))

	var (
		wg      sync.WaitGroup
		entered = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second := s.factory.Create()
		_ = second.Begin(ctx)
		close(entered)
		_ = second.Rollback(ctx)
	}()

	select {
	case <-entered:
		s.Fail("second unit of work entered while the first was active")
	case <-time.After(50 * time.Millisecond):
	}

	s.Require().NoError(first.Rollback(ctx))
	wg.Wait()
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func ids(orders []*order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID())
	}
	return out
}

func TestRiderDirectory(t *testing.T) {
	t.Run("should list riders by id and find them", func(t *testing.T) {
		dir, err := memory.NewRiderDirectory(newRider(t, "r2"), newRider(t, "r1"))
		require.NoError(t, err)

		riders, err := dir.List(t.Context())
		require.NoError(t, err)
		require.Len(t, riders, 2)
		assert.Equal(t, "r1", riders[0].ID())

		r, err := dir.Get(t.Context(), "r2")
		require.NoError(t, err)
		assert.Equal(t, "r2", r.ID())

		_, err = dir.Get(t.Context(), "r9")
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject duplicates", func(t *testing.T) {
		_, err := memory.NewRiderDirectory(newRider(t, "r1"), newRider(t, "r1"))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
