package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Created ──> Confirmed ──> Preparing ──> ReadyForPickup ──> Assigned ──> PickedUp ──> OnTheWay ──> Delivered ──> Completed
//	   │            │             │               │               │            │            │
//	   └────────────┴─────────────┴───────────────┴───────────────┴────────────┴────────────┴──> Cancelled
//
// Completed and Cancelled are terminal. Delivered cannot be cancelled: the
// goods have already changed hands. Returning an Assigned order to
// ReadyForPickup is not a transition; it is the privileged Order.Redispatch.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	Confirmed
	Preparing
	ReadyForPickup
	Assigned
	PickedUp
	OnTheWay
	Delivered
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:        "UNKNOWN",
	Created:        "CREATED",
	Confirmed:      "CONFIRMED",
	Preparing:      "PREPARING",
	ReadyForPickup: "READY_FOR_PICKUP",
	Assigned:       "ASSIGNED",
	PickedUp:       "PICKED_UP",
	OnTheWay:       "ON_THE_WAY",
	Delivered:      "DELIVERED",
	Completed:      "COMPLETED",
	Cancelled:      "CANCELLED",
}

var transitions = map[Status][]Status{
	Created:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {ReadyForPickup, Cancelled},
	ReadyForPickup: {Assigned, Cancelled},
	Assigned:       {PickedUp, Cancelled},
	PickedUp:       {OnTheWay, Cancelled},
	OnTheWay:       {Delivered, Cancelled},
	Delivered:      {Completed},
	Completed:      {},
	Cancelled:      {},
}

// ParseStatus accepts the wire names ("READY_FOR_PICKUP"), case-insensitively.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for s, name := range statusNames {
		if s != Unknown && name == normalized {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", raw))
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Created, Confirmed, Preparing, ReadyForPickup, Assigned,
		PickedUp, OnTheWay, Delivered, Completed, Cancelled,
	}
}

// Validate rejects Unknown and out-of-range values, typically read from storage.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// MarshalText encodes the wire name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllowedTransitions returns the statuses reachable in one step.
func (s Status) AllowedTransitions() []Status {
	allowed := transitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransitionTo reports whether next is a legal single step from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error wrapping ErrInvalidTransition when next
// is not reachable from s. Re-entering the current status is never allowed.
func (s Status) ValidateTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// IsTerminal reports whether the order has left the pipeline for good.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// HoldsRider reports whether an order in this status occupies its rider's capacity.
func (s Status) HoldsRider() bool {
	switch s {
	case Assigned, PickedUp, OnTheWay, Delivered:
		return true
	default:
		return false
	}
}

// IsPreDispatch reports whether the order has not yet been handed to a rider.
func (s Status) IsPreDispatch() bool {
	switch s {
	case Created, Confirmed, Preparing, ReadyForPickup:
		return true
	default:
		return false
	}
}

// IsInTransit reports whether a rider is actively working the order.
func (s Status) IsInTransit() bool {
	return s == Assigned || s == PickedUp || s == OnTheWay
}

// ActiveLoadStatuses are the statuses counted against a rider's capacity.
func ActiveLoadStatuses() []Status {
	return []Status{Assigned, PickedUp, OnTheWay, Delivered}
}
