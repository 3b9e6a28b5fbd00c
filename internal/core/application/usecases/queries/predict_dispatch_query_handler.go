package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// PredictDispatchResponse is the rider ETA matrix for one order.
// Recommended is the first eligible candidate, nil when nobody qualifies.
type PredictDispatchResponse struct {
	OrderID     string               `json:"orderId"`
	Status      order.Status         `json:"status"`
	Recommended *services.Candidate  `json:"recommended"`
	Candidates  []services.Candidate `json:"candidates"`
}

// PredictDispatchQueryHandler runs the matcher against live loads and
// returns the full ranking. It works for any order status so operators can
// compare riders before an order reaches the pool.
type PredictDispatchQueryHandler struct {
	orders  ports.OrderReader
	riders  ports.RiderDirectory
	matcher services.RiderMatcher
	clock   Clock
}

func NewPredictDispatchQueryHandler(
	orders ports.OrderReader,
	riders ports.RiderDirectory,
	matcher services.RiderMatcher,
	clock Clock,
) PredictDispatchQueryHandler {
	return PredictDispatchQueryHandler{orders: orders, riders: riders, matcher: matcher, clock: clock}
}

func (h PredictDispatchQueryHandler) Handle(
	ctx context.Context,
	query PredictDispatchQuery,
) (PredictDispatchResponse, error) {
	if err := query.Validate(); err != nil {
		return PredictDispatchResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return PredictDispatchResponse{}, err
	}
	loads, err := riderLoads(ctx, h.orders, h.riders)
	if err != nil {
		return PredictDispatchResponse{}, err
	}

	candidates := h.matcher.Rank(o, loads, h.clock.now())
	response := PredictDispatchResponse{
		OrderID:    o.ID(),
		Status:     o.Status(),
		Candidates: candidates,
	}
	for i := range candidates {
		if candidates[i].Eligible {
			recommended := candidates[i]
			response.Recommended = &recommended
			break
		}
	}
	return response, nil
}

func riderLoads(ctx context.Context, orders ports.OrderReader, riders ports.RiderDirectory) ([]services.RiderLoad, error) {
	roster, err := riders.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := orders.ActiveLoads(ctx)
	if err != nil {
		return nil, err
	}

	loads := make([]services.RiderLoad, 0, len(roster))
	for _, r := range roster {
		loads = append(loads, services.RiderLoad{Rider: r, ActiveLoad: active[r.ID()]})
	}
	return loads, nil
}
