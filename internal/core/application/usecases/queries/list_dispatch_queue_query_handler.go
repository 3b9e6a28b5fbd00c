package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DispatchQueueEntry is one ranked pending order.
type DispatchQueueEntry struct {
	OrderID         string         `json:"orderId"`
	Status          order.Status   `json:"status"`
	Priority        order.Priority `json:"priority"`
	Zone            kernel.Zone    `json:"zone"`
	Score           int            `json:"score"`
	SLABreached     bool           `json:"slaBreached"`
	AgeMinutes      int            `json:"ageMinutes"`
	RedispatchCount int            `json:"redispatchCount"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// ListDispatchQueueQueryHandler ranks READY_FOR_PICKUP orders without a
// rider by priority score descending, oldest first on ties.
type ListDispatchQueueQueryHandler struct {
	orders ports.OrderReader
	sla    services.SLAEvaluator
	clock  Clock
}

func NewListDispatchQueueQueryHandler(
	orders ports.OrderReader,
	sla services.SLAEvaluator,
	clock Clock,
) ListDispatchQueueQueryHandler {
	return ListDispatchQueueQueryHandler{orders: orders, sla: sla, clock: clock}
}

func (h ListDispatchQueueQueryHandler) Handle(
	ctx context.Context,
	query ListDispatchQueueQuery,
) ([]DispatchQueueEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ready, err := h.orders.ListByStatus(ctx, order.ReadyForPickup)
	if err != nil {
		return nil, err
	}

	queue := h.sla.Queue(ready, h.clock.now(), query.Limit())
	entries := make([]DispatchQueueEntry, 0, len(queue))
	for _, q := range queue {
		entries = append(entries, DispatchQueueEntry{
			OrderID:         q.Order.ID(),
			Status:          q.Order.Status(),
			Priority:        q.Order.Priority(),
			Zone:            q.Order.Zone(),
			Score:           q.Score,
			SLABreached:     q.SLABreached,
			AgeMinutes:      q.AgeMinutes,
			RedispatchCount: q.Order.RedispatchCount(),
			CreatedAt:       q.Order.CreatedAt(),
		})
	}
	return entries, nil
}
