package services

import (
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// QueuedOrder is an order waiting in the dispatch pool with its ranking figures.
type QueuedOrder struct {
	Order       *order.Order
	Score       int
	SLABreached bool
	AgeMinutes  int
}

// Queue keeps the orders awaiting dispatch and sorts them by priority score
// descending, then creation time ascending, then identifier. limit <= 0
// returns the whole pool.
func (e SLAEvaluator) Queue(orders []*order.Order, now time.Time, limit int) []QueuedOrder {
	queue := make([]QueuedOrder, 0, len(orders))
	for _, o := range orders {
		if !o.IsAwaitingDispatch() {
			continue
		}
		queue = append(queue, QueuedOrder{
			Order:       o,
			Score:       e.PriorityScore(o, now),
			SLABreached: e.IsSLABreached(o, now),
			AgeMinutes:  int(max(o.Age(now), 0) / time.Minute),
		})
	}

	slices.SortStableFunc(queue, func(a, b QueuedOrder) int {
		switch {
		case a.Score != b.Score:
			return b.Score - a.Score
		case !a.Order.CreatedAt().Equal(b.Order.CreatedAt()):
			return a.Order.CreatedAt().Compare(b.Order.CreatedAt())
		default:
			return strings.Compare(a.Order.ID(), b.Order.ID())
		}
	})

	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}
	return queue
}
