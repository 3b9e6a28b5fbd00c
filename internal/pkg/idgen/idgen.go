// Package idgen issues order identifiers of the form "ORD-<unix millis>".
package idgen

import (
	"strconv"
	"sync"
	"time"
)

const orderPrefix = "ORD-"

// OrderIDGenerator derives identifiers from the wall clock. Two calls within the
// same millisecond still get distinct, increasing identifiers.
type OrderIDGenerator struct {
	mu       sync.Mutex
	lastTime int64
	now      func() time.Time
}

func NewOrderIDGenerator(now func() time.Time) *OrderIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderIDGenerator{now: now}
}

// NextID returns the next identifier.
func (g *OrderIDGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts <= g.lastTime {
		ts = g.lastTime + 1
	}
	g.lastTime = ts

	return orderPrefix + strconv.FormatInt(ts, 10)
}
