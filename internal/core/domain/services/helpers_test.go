package services_test

import (
	"fmt"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	placedAt = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	seq      int
)

func createOrderInZone(t *testing.T, zone kernel.Zone, priority order.Priority, categories ...order.Category) *order.Order {
	t.Helper()
	items := make([]order.Item, 0, len(categories))
	for i, c := range categories {
		item, err := order.NewItem(i+1, string(c), c, decimal.NewFromInt(100), 1)
		require.NoError(t, err)
		items = append(items, item)
	}
	seq++
	o, err := order.NewOrder(fmt.Sprintf("ORD-%04d", seq), "customer", order.ChannelWeb, items, zone, priority, placedAt)
	require.NoError(t, err)
	return o
}

func createOrder(t *testing.T, priority order.Priority, categories ...order.Category) *order.Order {
	t.Helper()
	return createOrderInZone(t, kernel.ZoneCBD, priority, categories...)
}

func readyOrder(t *testing.T, priority order.Priority, categories ...order.Category) *order.Order {
	t.Helper()
	o := createOrder(t, priority, categories...)
	for _, s := range []order.Status{order.Confirmed, order.Preparing, order.ReadyForPickup} {
		require.NoError(t, o.Transition(s, placedAt))
	}
	return o
}

func newRider(t *testing.T, id string, zone kernel.Zone, speed float64, capacity int, rate float64) *rider.Rider {
	t.Helper()
	shift, err := rider.NewShift(6, 22)
	require.NoError(t, err)
	r, err := rider.NewRider(id, "Rider "+id, "", zone, shift, speed, capacity, rate)
	require.NoError(t, err)
	return r
}
