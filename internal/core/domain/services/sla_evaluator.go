package services

import (
	"time"

	"dispatch/internal/core/domain/model/order"
)

const (
	DefaultSLACreatedThreshold = 45 * time.Minute
	DefaultSLATransitThreshold = 60 * time.Minute
)

// ScoreWeights are the tunable constants of the priority score.
type ScoreWeights struct {
	Low             int
	Normal          int
	High            int
	Critical        int
	RedispatchBonus int
	BreachBonus     int
}

// DefaultScoreWeights returns the production tuning.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Low:             100,
		Normal:          300,
		High:            600,
		Critical:        1000,
		RedispatchBonus: 90,
		BreachBonus:     180,
	}
}

func (w ScoreWeights) base(p order.Priority) int {
	switch p {
	case order.PriorityLow:
		return w.Low
	case order.PriorityHigh:
		return w.High
	case order.PriorityCritical:
		return w.Critical
	default:
		return w.Normal
	}
}

// SLAEvaluator computes the ranking score and breach flag of an order.
// Both are pure functions of order fields and now; nothing is persisted.
//
// Example usage:
//
//	sla := services.NewSLAEvaluator(45*time.Minute, 60*time.Minute, services.DefaultScoreWeights())
//	if sla.IsSLABreached(o, now) {
//	    // escalate
//	}
//	score := sla.PriorityScore(o, now)
type SLAEvaluator struct {
	createdThreshold time.Duration
	transitThreshold time.Duration
	weights          ScoreWeights
}

// NewSLAEvaluator falls back to the defaults for non-positive thresholds.
func NewSLAEvaluator(createdThreshold, transitThreshold time.Duration, weights ScoreWeights) SLAEvaluator {
	if createdThreshold <= 0 {
		createdThreshold = DefaultSLACreatedThreshold
	}
	if transitThreshold <= 0 {
		transitThreshold = DefaultSLATransitThreshold
	}
	return SLAEvaluator{
		createdThreshold: createdThreshold,
		transitThreshold: transitThreshold,
		weights:          weights,
	}
}

// IsSLABreached reports whether the order has outlived the budget of its phase.
//
// Rules:
//   - Completed, Cancelled and Delivered orders are never breached
//   - pre-dispatch statuses are measured from createdAt against the created threshold
//   - in-transit statuses are measured from assignedAt, or createdAt when it is
//     missing, against the transit threshold
func (e SLAEvaluator) IsSLABreached(o *order.Order, now time.Time) bool {
	status := o.Status()
	switch {
	case status.IsPreDispatch():
		return now.Sub(o.CreatedAt()) > e.createdThreshold
	case status.IsInTransit():
		since := o.CreatedAt()
		if assignedAt := o.AssignedAt(); assignedAt != nil {
			since = *assignedAt
		}
		return now.Sub(since) > e.transitThreshold
	default:
		return false
	}
}

// PriorityScore ranks orders for dispatch: the priority base weight, plus
// whole minutes of age, plus a bonus per redispatch and a bonus when the
// SLA is breached. Age before createdAt counts as zero.
func (e SLAEvaluator) PriorityScore(o *order.Order, now time.Time) int {
	ageMinutes := int(max(o.Age(now), 0) / time.Minute)

	score := e.weights.base(o.Priority()) + ageMinutes + e.weights.RedispatchBonus*o.RedispatchCount()
	if e.IsSLABreached(o, now) {
		score += e.weights.BreachBonus
	}
	return score
}
