package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"go.uber.org/atomic"
)

// ErrDispatchAlreadyRunning is returned when a batch dispatch is triggered
// while another one is in flight.
var ErrDispatchAlreadyRunning = errors.New("batch dispatch already running")

// DispatchOutcome is one order assigned by a batch.
type DispatchOutcome struct {
	OrderID  string         `json:"orderId"`
	Priority order.Priority `json:"priority"`
	Score    int            `json:"score"`
	Dispatch DispatchMeta   `json:"dispatch"`
}

// DispatchFailure is one order a batch could not assign.
type DispatchFailure struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

// BatchDispatchResult summarizes one batch.
type BatchDispatchResult struct {
	Processed    int                 `json:"processed"`
	Assigned     []DispatchOutcome   `json:"assigned"`
	Failed       []DispatchFailure   `json:"failed"`
	Redispatched []RedispatchedOrder `json:"redispatched"`
}

// RunBatchDispatchCommandHandler is the dispatch cycle: release stalled
// assignments, rank the pool by priority score, then assign the first
// limit orders one by one. Each assignment commits before the next order is
// ranked against riders, so capacity used earlier in the batch is seen.
//
// Only one batch runs at a time per handler; a concurrent call returns
// ErrDispatchAlreadyRunning without touching any order.
//
// Example:
//
//	result, err := handler.Handle(ctx, NewRunBatchDispatchCommand(5))
//	if errors.Is(err, ErrDispatchAlreadyRunning) {
//	    return nil
//	}
//	log.Printf("assigned %d of %d", len(result.Assigned), result.Processed)
type RunBatchDispatchCommandHandler struct {
	uowFactory UoWFactory
	dispatcher dispatcher
	sla        services.SLAEvaluator
	redispatch RunRedispatchSweepCommandHandler
	clock      Clock
	logger     *slog.Logger
	running    *atomic.Bool
}

func NewRunBatchDispatchCommandHandler(
	uowFactory UoWFactory,
	riders ports.RiderDirectory,
	matcher services.RiderMatcher,
	sla services.SLAEvaluator,
	redispatch RunRedispatchSweepCommandHandler,
	clock Clock,
	logger *slog.Logger,
) RunBatchDispatchCommandHandler {
	return RunBatchDispatchCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher{riders: riders, matcher: matcher},
		sla:        sla,
		redispatch: redispatch,
		clock:      clock,
		logger:     logger.With("component", "batch_dispatch"),
		running:    atomic.NewBool(false),
	}
}

func (h RunBatchDispatchCommandHandler) Handle(
	ctx context.Context,
	cmd RunBatchDispatchCommand,
) (BatchDispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchDispatchResult{}, err
	}
	if !h.running.CAS(false, true) {
		return BatchDispatchResult{}, ErrDispatchAlreadyRunning
	}
	defer h.running.Store(false)

	redispatched, err := h.redispatch.Handle(ctx, NewRunRedispatchSweepCommand())
	if err != nil {
		return BatchDispatchResult{}, fmt.Errorf("redispatch sweep: %w", err)
	}

	queue, err := h.pending(ctx, cmd.Limit())
	if err != nil {
		return BatchDispatchResult{}, err
	}

	result := BatchDispatchResult{
		Processed:    len(queue),
		Assigned:     []DispatchOutcome{},
		Failed:       []DispatchFailure{},
		Redispatched: redispatched,
	}
	for _, q := range queue {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		meta, assignErr := h.assignOne(ctx, q.Order.ID())
		if assignErr != nil {
			result.Failed = append(result.Failed, DispatchFailure{
				OrderID: q.Order.ID(),
				Reason:  assignErr.Error(),
				Err:     assignErr,
			})
			if !isExpectedDispatchFailure(assignErr) {
				h.logger.ErrorContext(ctx, "failed to dispatch order", "order_id", q.Order.ID(), "error", assignErr)
			}
			continue
		}

		h.logger.InfoContext(ctx, "order dispatched",
			"order_id", q.Order.ID(), "rider_id", meta.RiderID, "eta_minutes", meta.ETAMinutes, "score", q.Score)
		result.Assigned = append(result.Assigned, DispatchOutcome{
			OrderID:  q.Order.ID(),
			Priority: q.Order.Priority(),
			Score:    q.Score,
			Dispatch: meta,
		})
	}

	return result, nil
}

func (h RunBatchDispatchCommandHandler) pending(ctx context.Context, limit int) ([]services.QueuedOrder, error) {
	var queue []services.QueuedOrder
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		ready, err := repo.ListByStatus(ctx, order.ReadyForPickup)
		if err != nil {
			return err
		}
		queue = h.sla.Queue(ready, h.clock.now(), limit)
		return nil
	})
	return queue, err
}

func (h RunBatchDispatchCommandHandler) assignOne(ctx context.Context, orderID string) (DispatchMeta, error) {
	var (
		meta       DispatchMeta
		noRiderErr error
	)
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}

		meta, err = h.dispatcher.assign(ctx, repo, o, "", h.clock.now())
		if errors.Is(err, services.ErrNoRider) {
			noRiderErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return DispatchMeta{}, err
	}
	if noRiderErr != nil {
		return DispatchMeta{}, noRiderErr
	}
	return meta, nil
}

func isExpectedDispatchFailure(err error) bool {
	return errors.Is(err, services.ErrNoRider) || errors.Is(err, order.ErrNotReady)
}
