package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/ports"
)

// RiderView is a roster entry with status and load computed at read time.
type RiderView struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	BaseZone        kernel.Zone  `json:"baseZone"`
	ShiftStart      int          `json:"shiftStartHour"`
	ShiftEnd        int          `json:"shiftEndHour"`
	SpeedKph        float64      `json:"speedKph"`
	MaxActiveOrders int          `json:"maxActiveOrders"`
	AcceptanceRate  float64      `json:"acceptanceRate"`
	ActiveLoad      int          `json:"activeLoad"`
	Status          rider.Status `json:"status"`
}

// ListRidersQueryHandler never caches load: every call rescans the active
// orders.
type ListRidersQueryHandler struct {
	orders ports.OrderReader
	riders ports.RiderDirectory
	clock  Clock
}

func NewListRidersQueryHandler(orders ports.OrderReader, riders ports.RiderDirectory, clock Clock) ListRidersQueryHandler {
	return ListRidersQueryHandler{orders: orders, riders: riders, clock: clock}
}

func (h ListRidersQueryHandler) Handle(ctx context.Context, query ListRidersQuery) ([]RiderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	loads, err := riderLoads(ctx, h.orders, h.riders)
	if err != nil {
		return nil, err
	}

	now := h.clock.now()
	views := make([]RiderView, 0, len(loads))
	for _, l := range loads {
		r := l.Rider
		views = append(views, RiderView{
			ID:              r.ID(),
			Name:            r.Name(),
			BaseZone:        r.BaseZone(),
			ShiftStart:      r.Shift().Start(),
			ShiftEnd:        r.Shift().End(),
			SpeedKph:        r.SpeedKph(),
			MaxActiveOrders: r.MaxActiveOrders(),
			AcceptanceRate:  r.AcceptanceRate(),
			ActiveLoad:      l.ActiveLoad,
			Status:          r.StatusAt(now, l.ActiveLoad),
		})
	}
	return views, nil
}
