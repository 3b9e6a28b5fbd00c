package queries

import (
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// Clock returns the current time in the operating time zone.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// OrderView is the order read model: the stored snapshot plus the SLA view
// computed at read time.
type OrderView struct {
	order.Snapshot
	SLABreached   bool `json:"slaBreached"`
	PriorityScore int  `json:"priorityScore"`
}

func newOrderView(o *order.Order, sla services.SLAEvaluator, now time.Time) OrderView {
	return OrderView{
		Snapshot:      o.Snapshot(),
		SLABreached:   sla.IsSLABreached(o, now),
		PriorityScore: sla.PriorityScore(o, now),
	}
}
