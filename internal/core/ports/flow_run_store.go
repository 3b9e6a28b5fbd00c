package ports

import (
	"time"

	"dispatch/internal/core/domain/model/order"
)

// FlowMove is one order advanced by a flow sweep.
type FlowMove struct {
	OrderID string       `json:"orderId"`
	From    order.Status `json:"from"`
	To      order.Status `json:"to"`
}

// FlowRun summarizes one flow sweep.
type FlowRun struct {
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
	Forced     bool       `json:"forced"`
	Processed  int        `json:"processed"`
	Moved      []FlowMove `json:"moved"`
}

// FlowRunStore keeps the summary of the latest flow sweep.
type FlowRunStore interface {
	Save(run FlowRun)
	// Last returns false until the first sweep finishes.
	Last() (FlowRun, bool)
}
