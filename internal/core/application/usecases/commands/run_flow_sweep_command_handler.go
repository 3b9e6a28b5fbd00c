package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"go.uber.org/atomic"
)

// ErrFlowSweepAlreadyRunning is returned when an unforced flow sweep is
// triggered while another one is in flight.
var ErrFlowSweepAlreadyRunning = errors.New("flow sweep already running")

// RunFlowSweepCommandHandler moves orders one step along
// CREATED -> CONFIRMED -> PREPARING -> READY_FOR_PICKUP once their age passes
// the policy milestones. Orders are scanned oldest first; each step commits
// in its own unit of work and a failing order is logged and skipped.
//
// The summary of every finished sweep is saved to the FlowRunStore.
type RunFlowSweepCommandHandler struct {
	uowFactory UoWFactory
	policy     services.FlowPolicy
	runs       ports.FlowRunStore
	clock      Clock
	logger     *slog.Logger
	inFlight   *atomic.Int32
}

func NewRunFlowSweepCommandHandler(
	uowFactory UoWFactory,
	policy services.FlowPolicy,
	runs ports.FlowRunStore,
	clock Clock,
	logger *slog.Logger,
) RunFlowSweepCommandHandler {
	return RunFlowSweepCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		runs:       runs,
		clock:      clock,
		logger:     logger.With("component", "flow_sweep"),
		inFlight:   atomic.NewInt32(0),
	}
}

func (h RunFlowSweepCommandHandler) Handle(ctx context.Context, cmd RunFlowSweepCommand) (ports.FlowRun, error) {
	if err := cmd.Validate(); err != nil {
		return ports.FlowRun{}, err
	}

	if n := h.inFlight.Inc(); n > 1 && !cmd.Force() {
		h.inFlight.Dec()
		return ports.FlowRun{}, ErrFlowSweepAlreadyRunning
	}
	defer h.inFlight.Dec()

	run := ports.FlowRun{
		StartedAt: h.clock.now(),
		Forced:    cmd.Force(),
		Moved:     []ports.FlowMove{},
	}

	var candidates []*order.Order
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		var err error
		candidates, err = repo.ListByStatus(ctx, nonTerminalStatuses()...)
		return err
	})
	if err != nil {
		return ports.FlowRun{}, err
	}
	run.Processed = len(candidates)

	for _, o := range candidates {
		if err = ctx.Err(); err != nil {
			return ports.FlowRun{}, err
		}
		if _, due := h.policy.Next(o, h.clock.now()); !due {
			continue
		}

		move, ok, stepErr := h.step(ctx, o.ID())
		if stepErr != nil {
			h.logger.ErrorContext(ctx, "failed to advance order", "order_id", o.ID(), "error", stepErr)
			continue
		}
		if ok {
			run.Moved = append(run.Moved, move)
		}
	}

	run.FinishedAt = h.clock.now()
	h.runs.Save(run)
	if len(run.Moved) > 0 {
		h.logger.InfoContext(ctx, "flow sweep advanced orders", "processed", run.Processed, "moved", len(run.Moved))
	}
	return run, nil
}

// step re-reads the order under the lock and applies at most one move.
func (h RunFlowSweepCommandHandler) step(ctx context.Context, orderID string) (ports.FlowMove, bool, error) {
	var (
		move  ports.FlowMove
		moved bool
	)
	err := inUnitOfWork(ctx, h.uowFactory, func(repo ports.OrderRepository) error {
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}

		now := h.clock.now()
		next, due := h.policy.Next(o, now)
		if !due {
			return nil
		}

		from := o.Status()
		if err = o.Transition(next, now); err != nil {
			return err
		}
		if err = repo.Update(ctx, o); err != nil {
			return err
		}

		move = ports.FlowMove{OrderID: o.ID(), From: from, To: next}
		moved = true
		return nil
	})
	if err != nil {
		return ports.FlowMove{}, false, err
	}
	return move, moved, nil
}

func nonTerminalStatuses() []order.Status {
	var statuses []order.Status
	for _, s := range order.AllStatuses() {
		if !s.IsTerminal() {
			statuses = append(statuses, s)
		}
	}
	return statuses
}
