package services

import (
	"time"

	"dispatch/internal/core/domain/model/order"
)

const (
	DefaultFlowConfirmAfter   = 2 * time.Minute
	DefaultFlowPreparingAfter = 5 * time.Minute
	DefaultFlowReadyAfter     = 10 * time.Minute
)

// FlowPolicy holds the cumulative age milestones that move an order through
// the kitchen side of the pipeline without human input.
//
//	age > ConfirmAfter    CREATED   -> CONFIRMED
//	age > PreparingAfter  CONFIRMED -> PREPARING
//	age > ReadyAfter      PREPARING -> READY_FOR_PICKUP
type FlowPolicy struct {
	confirmAfter   time.Duration
	preparingAfter time.Duration
	readyAfter     time.Duration
}

// NewFlowPolicy normalizes the milestones so that each is at least the one
// before it. Negative values are treated as zero.
func NewFlowPolicy(confirmAfter, preparingAfter, readyAfter time.Duration) FlowPolicy {
	confirmAfter = max(confirmAfter, 0)
	preparingAfter = max(preparingAfter, confirmAfter)
	readyAfter = max(readyAfter, preparingAfter)
	return FlowPolicy{
		confirmAfter:   confirmAfter,
		preparingAfter: preparingAfter,
		readyAfter:     readyAfter,
	}
}

// DefaultFlowPolicy returns the 2/5/10 minute milestones.
func DefaultFlowPolicy() FlowPolicy {
	return NewFlowPolicy(DefaultFlowConfirmAfter, DefaultFlowPreparingAfter, DefaultFlowReadyAfter)
}

func (p FlowPolicy) ConfirmAfter() time.Duration   { return p.confirmAfter }
func (p FlowPolicy) PreparingAfter() time.Duration { return p.preparingAfter }
func (p FlowPolicy) ReadyAfter() time.Duration     { return p.readyAfter }

// Next returns the single step o is due for at now, if any.
func (p FlowPolicy) Next(o *order.Order, now time.Time) (order.Status, bool) {
	age := o.Age(now)
	switch o.Status() {
	case order.Created:
		if age > p.confirmAfter {
			return order.Confirmed, true
		}
	case order.Confirmed:
		if age > p.preparingAfter {
			return order.Preparing, true
		}
	case order.Preparing:
		if age > p.readyAfter {
			return order.ReadyForPickup, true
		}
	}
	return order.Unknown, false
}
