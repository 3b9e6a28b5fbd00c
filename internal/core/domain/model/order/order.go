package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder constructor")

	// ErrInvalidTransition is returned when a status change is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotReady is returned when a rider is assigned to an order that is not
	// waiting for pickup or already has a rider.
	ErrNotReady = errors.New("order is not ready for dispatch")

	// ErrNotDelivered is returned when delivery is confirmed before the rider marked it delivered.
	ErrNotDelivered = errors.New("order is not delivered")

	// ErrInvalidCode is returned when the presented delivery code does not match.
	ErrInvalidCode = errors.New("invalid delivery code")

	// ErrForbidden is returned when the caller is not the party the order belongs to.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyOrder is returned when an order is placed without items.
	ErrEmptyOrder = errors.New("order has no items")
)

// Channel is where the order was placed.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelTelegram Channel = "telegram"
)

func (c Channel) Validate() error {
	switch c {
	case ChannelWeb, ChannelTelegram:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a valid channel", string(c)))
	}
}

// Order is the aggregate root of the fulfillment pipeline. It owns its
// status, its rider reference and the counters the dispatch engine reads.
//
// Invariants:
//   - status only moves along the transition table in status.go, except
//     for Redispatch which returns an Assigned order to ReadyForPickup
//   - an order holds a rider exactly while its status HoldsRider, and may
//     keep the reference for history once Completed or Cancelled
//   - items, their prices and the total never change after creation
//   - dispatch and redispatch counters never decrease
//
// Every mutation records an Event; callers drain them with DomainEvents.
type Order struct {
	id          string
	customerRef string
	channel     Channel
	items       []Item
	total       decimal.Decimal
	status      Status
	riderID     *string
	zone        kernel.Zone
	priority    Priority

	dispatchAttempts int
	redispatchCount  int
	excludedRiderID  *string

	deliveryCode      string
	customerConfirmed bool

	createdAt   time.Time
	updatedAt   time.Time
	assignedAt  *time.Time
	deliveredAt *time.Time
	completedAt *time.Time

	events        []Event
	isConstructed bool
}

// NewOrder places an order in Created status with a fresh 4-digit delivery code.
//
// Example:
//
//	item, _ := order.NewItem(1, "Burger Combo", order.CategoryFood, decimal.NewFromInt(850), 2)
//	o, err := order.NewOrder("ORD-1718000000000", "chat-42", order.ChannelTelegram,
//	    []order.Item{item}, kernel.ZoneNyali, order.PriorityNormal, time.Now())
//
// A new_order event is recorded.
func NewOrder(
	id string,
	customerRef string,
	channel Channel,
	items []Item,
	zone kernel.Zone,
	priority Priority,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	o := &Order{
		id:           strings.TrimSpace(id),
		customerRef:  strings.TrimSpace(customerRef),
		channel:      channel,
		items:        cloneItems(items),
		total:        TotalOf(items),
		status:       Created,
		zone:         zone,
		priority:     priority,
		deliveryCode: newDeliveryCode(),
		createdAt:    now,
		updatedAt:    now,

		isConstructed: true,
	}
	if err := o.validateFields(); err != nil {
		return nil, err
	}

	o.record(EventNewOrder, now)
	return o, nil
}

// RestoreOrder rebuilds an aggregate from persisted state. No event is recorded.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		id:                s.ID,
		customerRef:       s.CustomerRef,
		channel:           s.Channel,
		items:             cloneItems(s.Items),
		total:             s.Total,
		status:            s.Status,
		riderID:           cloneString(s.RiderID),
		zone:              s.Zone,
		priority:          s.Priority,
		dispatchAttempts:  s.DispatchAttempts,
		redispatchCount:   s.RedispatchCount,
		excludedRiderID:   cloneString(s.ExcludedRiderID),
		deliveryCode:      s.DeliveryCode,
		customerConfirmed: s.CustomerConfirmed,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		assignedAt:        cloneTime(s.AssignedAt),
		deliveredAt:       cloneTime(s.DeliveredAt),
		completedAt:       cloneTime(s.CompletedAt),

		isConstructed: true,
	}
	if o.updatedAt.IsZero() {
		o.updatedAt = o.createdAt
	}

	var errList []error
	if len(o.items) == 0 {
		errList = append(errList, ErrEmptyOrder)
	}
	errList = append(errList, o.validateFields(), o.status.Validate())
	if o.status.HoldsRider() && o.riderID == nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("riderId",
			fmt.Errorf("status %s requires a rider", o.status)))
	}
	if o.status.IsPreDispatch() && o.riderID != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("riderId",
			fmt.Errorf("status %s cannot hold a rider", o.status)))
	}
	if o.dispatchAttempts < 0 || o.redispatchCount < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("dispatch counters"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) validateFields() error {
	var errList []error
	if o.id == "" {
		errList = append(errList, errs.NewValueIsRequiredError("id"))
	}
	if err := o.channel.Validate(); err != nil {
		errList = append(errList, err)
	}
	for _, item := range o.items {
		if err := item.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if !o.zone.IsKnown() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("zone",
			fmt.Errorf("%q is not a known zone", string(o.zone))))
	}
	if err := o.priority.Validate(); err != nil {
		errList = append(errList, err)
	}
	if !isDeliveryCode(o.deliveryCode) {
		errList = append(errList, errs.NewValueIsInvalidError("deliveryCode"))
	}
	if o.createdAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("createdAt"))
	}
	return errors.Join(errList...)
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

func (o *Order) ID() string               { return o.id }
func (o *Order) CustomerRef() string      { return o.customerRef }
func (o *Order) Channel() Channel         { return o.channel }
func (o *Order) Items() []Item            { return cloneItems(o.items) }
func (o *Order) Total() decimal.Decimal   { return o.total }
func (o *Order) Status() Status           { return o.status }
func (o *Order) RiderID() *string         { return cloneString(o.riderID) }
func (o *Order) Zone() kernel.Zone        { return o.zone }
func (o *Order) Priority() Priority       { return o.priority }
func (o *Order) DispatchAttempts() int    { return o.dispatchAttempts }
func (o *Order) RedispatchCount() int     { return o.redispatchCount }
func (o *Order) ExcludedRiderID() *string { return cloneString(o.excludedRiderID) }
func (o *Order) DeliveryCode() string     { return o.deliveryCode }
func (o *Order) CustomerConfirmed() bool  { return o.customerConfirmed }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }
func (o *Order) UpdatedAt() time.Time     { return o.updatedAt }
func (o *Order) AssignedAt() *time.Time   { return cloneTime(o.assignedAt) }
func (o *Order) DeliveredAt() *time.Time  { return cloneTime(o.deliveredAt) }
func (o *Order) CompletedAt() *time.Time  { return cloneTime(o.completedAt) }

// Age is the time elapsed since the order was placed.
func (o *Order) Age(now time.Time) time.Duration {
	return now.Sub(o.createdAt)
}

// HasRider reports whether the order currently references a rider.
func (o *Order) HasRider() bool {
	return o.riderID != nil
}

// IsHeldBy reports whether riderID is the rider currently working the order.
func (o *Order) IsHeldBy(riderID string) bool {
	return o.riderID != nil && *o.riderID == riderID && o.status.HoldsRider()
}

// IsAwaitingDispatch reports whether the order sits in the dispatch pool.
func (o *Order) IsAwaitingDispatch() bool {
	return o.status == ReadyForPickup && o.riderID == nil
}

// Transition moves the order one step along the transition table.
//
// Entering Delivered stamps deliveredAt; entering Completed stamps
// completedAt and marks the order customer-confirmed. Assigned cannot be
// entered here: use Assign so the rider reference and counters move with it.
//
// Returns an error wrapping ErrInvalidTransition, including for a repeat of
// the current status.
func (o *Order) Transition(next Status, now time.Time) error {
	if next == Assigned {
		return fmt.Errorf("%w: %s -> %s requires a rider", ErrInvalidTransition, o.status, next)
	}
	if err := o.status.ValidateTransition(next); err != nil {
		return err
	}

	o.status = next
	switch next {
	case Delivered:
		o.deliveredAt = &now
	case Completed:
		o.completedAt = &now
		o.customerConfirmed = true
	case Cancelled:
		o.excludedRiderID = nil
	}

	o.record(EventOrderUpdated, now)
	return nil
}

// Assign hands a ReadyForPickup order to riderID. Capacity and shift are
// checked by the caller before the decision reaches the aggregate.
func (o *Order) Assign(riderID string, now time.Time) error {
	riderID = strings.TrimSpace(riderID)
	if riderID == "" {
		return errs.NewValueIsRequiredError("riderId")
	}
	if !o.IsAwaitingDispatch() {
		return fmt.Errorf("%w: status is %s", ErrNotReady, o.status)
	}

	o.status = Assigned
	o.riderID = &riderID
	o.assignedAt = &now
	o.dispatchAttempts++
	o.excludedRiderID = nil

	o.record(EventOrderUpdated, now)
	return nil
}

// Redispatch releases a stalled assignment. The order returns to the pool
// with the previous rider excluded from the next automatic match.
// Returns the released rider id.
func (o *Order) Redispatch(now time.Time) (string, error) {
	if o.status != Assigned || o.riderID == nil {
		return "", fmt.Errorf("%w: cannot redispatch from %s", ErrInvalidTransition, o.status)
	}

	previous := *o.riderID
	o.status = ReadyForPickup
	o.riderID = nil
	o.assignedAt = nil
	o.redispatchCount++
	o.excludedRiderID = &previous

	o.record(EventOrderUpdated, now)
	return previous, nil
}

// ClearExclusion drops the rider excluded by the last redispatch.
func (o *Order) ClearExclusion() {
	o.excludedRiderID = nil
}

// AssignmentExpired reports whether an Assigned order has waited longer than timeout.
func (o *Order) AssignmentExpired(now time.Time, timeout time.Duration) bool {
	if o.status != Assigned || o.assignedAt == nil {
		return false
	}
	return now.Sub(*o.assignedAt) > timeout
}

// SetPriority changes the declared priority.
func (o *Order) SetPriority(p Priority, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	o.record(EventOrderUpdated, now)
	return nil
}

// AdvanceByRider lets the assigned rider report pickup, departure and drop-off.
func (o *Order) AdvanceByRider(riderID string, next Status, now time.Time) error {
	if !o.IsHeldBy(riderID) {
		return fmt.Errorf("%w: order %s is not held by rider %s", ErrForbidden, o.id, riderID)
	}
	switch next {
	case PickedUp, OnTheWay, Delivered:
	default:
		return fmt.Errorf("%w: riders cannot set %s", ErrInvalidTransition, next)
	}
	return o.Transition(next, now)
}

// ConfirmDelivery completes a Delivered order when the customer presents the
// matching code. An empty customerRef skips the ownership check. State is
// untouched on failure.
func (o *Order) ConfirmDelivery(code, customerRef string, now time.Time) error {
	if o.status != Delivered {
		return fmt.Errorf("%w: status is %s", ErrNotDelivered, o.status)
	}
	customerRef = strings.TrimSpace(customerRef)
	if customerRef != "" && customerRef != o.customerRef {
		return ErrForbidden
	}
	if strings.TrimSpace(code) != o.deliveryCode {
		return ErrInvalidCode
	}
	return o.Transition(Completed, now)
}

// Snapshot returns a detached copy of the current state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                o.id,
		CustomerRef:       o.customerRef,
		Channel:           o.channel,
		Items:             cloneItems(o.items),
		Total:             o.total,
		Status:            o.status,
		RiderID:           cloneString(o.riderID),
		Zone:              o.zone,
		Priority:          o.priority,
		DispatchAttempts:  o.dispatchAttempts,
		RedispatchCount:   o.redispatchCount,
		ExcludedRiderID:   cloneString(o.excludedRiderID),
		AssignedAt:        cloneTime(o.assignedAt),
		DeliveryCode:      o.deliveryCode,
		CustomerConfirmed: o.customerConfirmed,
		CreatedAt:         o.createdAt,
		UpdatedAt:         o.updatedAt,
		DeliveredAt:       cloneTime(o.deliveredAt),
		CompletedAt:       cloneTime(o.completedAt),
	}
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) record(t EventType, now time.Time) {
	o.updatedAt = now
	o.events = append(o.events, Event{
		ID:         kernel.NewUUID(),
		Type:       t,
		OccurredAt: now,
		Order:      o.Snapshot(),
	})
}

func newDeliveryCode() string {
	return fmt.Sprintf("%04d", 1000+rand.IntN(9000))
}

func isDeliveryCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
