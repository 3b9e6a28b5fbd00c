package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Snapshot is a detached copy of an order's state. Stores persist
// snapshots and rebuild aggregates with RestoreOrder; transports
// serialize it as the order payload.
type Snapshot struct {
	ID                string          `json:"id"`
	CustomerRef       string          `json:"customerRef"`
	Channel           Channel         `json:"channel"`
	Items             []Item          `json:"items"`
	Total             decimal.Decimal `json:"total"`
	Status            Status          `json:"status"`
	RiderID           *string         `json:"riderId"`
	Zone              kernel.Zone     `json:"zone"`
	Priority          Priority        `json:"priority"`
	DispatchAttempts  int             `json:"dispatchAttempts"`
	RedispatchCount   int             `json:"redispatchCount"`
	ExcludedRiderID   *string         `json:"excludedRiderId,omitempty"`
	AssignedAt        *time.Time      `json:"assignedAt"`
	DeliveryCode      string          `json:"deliveryCode"`
	CustomerConfirmed bool            `json:"customerConfirmed"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	DeliveredAt       *time.Time      `json:"deliveredAt"`
	CompletedAt       *time.Time      `json:"completedAt"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
