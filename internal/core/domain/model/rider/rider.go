package rider

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// minTravelSpeedKph floors the speed used for travel estimates so a
	// misconfigured slow rider does not produce absurd ETAs.
	minTravelSpeedKph = 8.0
)

// Domain errors for rider construction.
var (
	// ErrIDIsRequired is returned when a rider has no identifier.
	ErrIDIsRequired = errs.NewValueIsRequiredError("id")
	// ErrNameIsRequired is returned when a rider has no display name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider constructor")
)

// Rider is a courier on the static roster.
//
// A rider carries a base zone, a daily shift window, a travel speed, a cap on
// concurrent active orders and an acceptance rate used as a reliability
// weight when ranking. Riders are provisioned from configuration at startup
// and never mutated by the dispatch engine.
//
// Availability is not stored on the rider. StatusAt derives it from the
// shift window and an active-load figure the caller computes from the order
// store, so the view cannot drift from the true load.
//
// Example usage:
//
//	shift, _ := rider.NewShift(6, 22)
//	r, err := rider.NewRider("r1", "Rider Alpha", "", kernel.ZoneCBD, shift, 32, 2, 0.96)
//	if err != nil {
//	    // Handle construction error
//	}
//	r.StatusAt(time.Now(), 1) // AVAILABLE during the day with one active order
type Rider struct {
	// id is the roster identifier, e.g. "r1"
	id string
	// name is the display name
	name string
	// chatID is the notification address; empty when the rider has none
	chatID string
	// baseZone is where the rider waits between jobs
	baseZone kernel.Zone
	// shift is the daily working window
	shift Shift
	// speedKph is the average travel speed
	speedKph float64
	// maxActiveOrders caps concurrent assignments
	maxActiveOrders int
	// acceptanceRate in [0, 1] weights reliability in the ranking
	acceptanceRate float64
	// guard ensures the rider was properly constructed
	guard guard.ConstructorGuard
}

// NewRider creates a Rider with validation of every parameter.
//
// Parameters:
//   - id: Roster identifier (must be non-empty)
//   - name: Display name (must be non-empty)
//   - chatID: Notification address, empty when none is configured
//   - baseZone: One of the known delivery zones
//   - shift: Working window built by NewShift
//   - speedKph: Average travel speed (must be positive)
//   - maxActiveOrders: Capacity for concurrent orders (must be at least 1)
//   - acceptanceRate: Reliability weight in [0, 1]
//
// Returns:
//   - *Rider: The rider if all validations pass
//   - error: Joined validation errors otherwise
func NewRider(
	id string,
	name string,
	chatID string,
	baseZone kernel.Zone,
	shift Shift,
	speedKph float64,
	maxActiveOrders int,
	acceptanceRate float64,
) (*Rider, error) {
	r := &Rider{
		chatID: strings.TrimSpace(chatID),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setBaseZone(baseZone),
		r.setShift(shift),
		r.setSpeed(speedKph),
		r.setCapacity(maxActiveOrders),
		r.setAcceptanceRate(acceptanceRate),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the Rider was created with NewRider.
func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

// IsEqual compares riders by roster identifier.
func (r *Rider) IsEqual(other *Rider) bool {
	return other != nil && r.id == other.id
}

// ID returns the roster identifier.
func (r *Rider) ID() string {
	return r.id
}

// Name returns the display name.
func (r *Rider) Name() string {
	return r.name
}

// ChatID returns the notification address, or "" when the rider has none.
func (r *Rider) ChatID() string {
	return r.chatID
}

// BaseZone returns the zone the rider is dispatched from.
func (r *Rider) BaseZone() kernel.Zone {
	return r.baseZone
}

// Shift returns the daily working window.
func (r *Rider) Shift() Shift {
	return r.shift
}

// SpeedKph returns the configured average speed.
func (r *Rider) SpeedKph() float64 {
	return r.speedKph
}

// MaxActiveOrders returns the capacity for concurrent orders.
func (r *Rider) MaxActiveOrders() int {
	return r.maxActiveOrders
}

// AcceptanceRate returns the reliability weight in [0, 1].
func (r *Rider) AcceptanceRate() float64 {
	return r.acceptanceRate
}

// OnShift reports whether now falls inside the rider's shift window.
// now is expected in the operating time zone.
func (r *Rider) OnShift(now time.Time) bool {
	return r.shift.ContainsTime(now)
}

// HasCapacity reports whether one more order fits under the cap.
func (r *Rider) HasCapacity(activeLoad int) bool {
	return activeLoad < r.maxActiveOrders
}

// Utilization is activeLoad as a fraction of capacity.
func (r *Rider) Utilization(activeLoad int) float64 {
	return float64(activeLoad) / float64(max(r.maxActiveOrders, 1))
}

// TravelMinutes estimates the ride time for distanceKm at the rider's
// speed, floored at minTravelSpeedKph.
func (r *Rider) TravelMinutes(distanceKm float64) float64 {
	return distanceKm / max(r.speedKph, minTravelSpeedKph) * 60
}

// StatusAt derives the availability view.
//
// Returns:
//   - OffShift when now is outside the shift window
//   - Busy when activeLoad has reached capacity
//   - Available otherwise
func (r *Rider) StatusAt(now time.Time, activeLoad int) Status {
	switch {
	case !r.OnShift(now):
		return OffShift
	case !r.HasCapacity(activeLoad):
		return Busy
	default:
		return Available
	}
}

func (r *Rider) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrIDIsRequired
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Rider) setBaseZone(zone kernel.Zone) error {
	if !zone.IsKnown() {
		return errs.NewValueIsInvalidErrorWithCause("baseZone", fmt.Errorf("%q is not a known zone", string(zone)))
	}
	r.baseZone = zone
	return nil
}

func (r *Rider) setShift(shift Shift) error {
	if err := shift.Validate(); err != nil {
		return err
	}
	r.shift = shift
	return nil
}

func (r *Rider) setSpeed(speedKph float64) error {
	if speedKph <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("speedKph", fmt.Errorf("%v is not greater than 0", speedKph))
	}
	r.speedKph = speedKph
	return nil
}

func (r *Rider) setCapacity(maxActiveOrders int) error {
	if maxActiveOrders < 1 {
		return errs.NewValueIsInvalidErrorWithCause("maxActiveOrders",
			fmt.Errorf("%d is less than 1", maxActiveOrders))
	}
	r.maxActiveOrders = maxActiveOrders
	return nil
}

func (r *Rider) setAcceptanceRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return errs.NewValueIsOutOfRangeError("acceptanceRate", rate, 0, 1)
	}
	r.acceptanceRate = rate
	return nil
}
