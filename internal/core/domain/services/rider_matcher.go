package services

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
)

const (
	minETAMinutes      = 5
	loadPenaltyMinutes = 10
	offShiftPenalty    = -200.0
	onShiftBonus       = 8.0
	maxAlternatives    = 2
)

var (
	// ErrNoRider is returned when no rider is on shift with spare capacity.
	ErrNoRider = errors.New("no rider available")
	// ErrRiderUnavailable is returned when a manually chosen rider is off shift.
	ErrRiderUnavailable = errors.New("rider is unavailable")
	// ErrRiderAtCapacity is returned when a manually chosen rider has no spare capacity.
	ErrRiderAtCapacity = errors.New("rider is at capacity")
)

// RiderLoad pairs a rider with its active load as read from the order store
// for a single scheduling decision.
type RiderLoad struct {
	Rider      *rider.Rider
	ActiveLoad int
}

// Candidate is one rider's fitness for one order.
type Candidate struct {
	RiderID    string  `json:"riderId"`
	RiderName  string  `json:"riderName"`
	ETAMinutes int     `json:"etaMinutes"`
	DistanceKm float64 `json:"distanceKm"`
	ActiveLoad int     `json:"activeLoad"`
	Score      float64 `json:"score"`
	OnShift    bool    `json:"onShift"`
	// Eligible is false for riders off shift, at capacity or excluded by a redispatch.
	Eligible bool `json:"eligible"`
}

// Decision is the outcome of a match: the chosen rider and up to two runner-ups.
type Decision struct {
	Winner       Candidate
	Alternatives []Candidate
}

// RiderMatcher is a domain service that ranks riders for an order by
// estimated delivery time, distance, utilization and reliability.
//
// It never mutates orders or riders; callers apply the Decision inside a
// unit of work so that later decisions in the same batch see the new load.
//
// Scoring:
//
//	eta   = max(5, round(service + distanceKm/max(speed, 8)*60 + 10*activeLoad))
//	score = 130 - eta - 2*distanceKm - 25*utilization + 12*acceptanceRate + (8 on shift | -200 off shift)
//
// Example usage:
//
//	matcher := services.NewRiderMatcher()
//	decision, err := matcher.Match(o, loads, now)
//	if errors.Is(err, services.ErrNoRider) {
//	    // leave the order in the pool for the next sweep
//	}
type RiderMatcher struct{}

// NewRiderMatcher creates a RiderMatcher.
func NewRiderMatcher() RiderMatcher {
	return RiderMatcher{}
}

// Match picks the best eligible rider for o.
//
// Returns:
//   - Decision: the winner plus at most two alternatives
//   - error: ErrNoRider when nobody is eligible, or an order validation error
func (m RiderMatcher) Match(o *order.Order, loads []RiderLoad, now time.Time) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}

	ranked := m.Rank(o, loads, now)
	eligible := ranked[:0:0]
	for _, c := range ranked {
		if c.Eligible {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Decision{}, ErrNoRider
	}

	alternatives := eligible[1:min(len(eligible), 1+maxAlternatives)]
	return Decision{
		Winner:       eligible[0],
		Alternatives: slices.Clone(alternatives),
	}, nil
}

// Rank evaluates every rider and sorts by score descending, then ETA
// ascending, then rider id. Ineligible riders are kept with Eligible=false
// so callers can show the full matrix.
func (m RiderMatcher) Rank(o *order.Order, loads []RiderLoad, now time.Time) []Candidate {
	excluded := ""
	if id := o.ExcludedRiderID(); id != nil {
		excluded = *id
	}

	candidates := make([]Candidate, 0, len(loads))
	for _, l := range loads {
		if l.Rider.Validate() != nil {
			continue
		}
		c := m.Evaluate(o, l, now)
		if l.Rider.ID() == excluded {
			c.Eligible = false
		}
		candidates = append(candidates, c)
	}

	slices.SortStableFunc(candidates, compareCandidates)
	return candidates
}

// CheckManual validates an operator-chosen rider. Ranking and the
// redispatch exclusion are bypassed; shift and capacity are not.
func (m RiderMatcher) CheckManual(o *order.Order, load RiderLoad, now time.Time) (Candidate, error) {
	if err := load.Rider.Validate(); err != nil {
		return Candidate{}, err
	}
	if !load.Rider.OnShift(now) {
		return Candidate{}, ErrRiderUnavailable
	}
	if !load.Rider.HasCapacity(load.ActiveLoad) {
		return Candidate{}, ErrRiderAtCapacity
	}
	return m.Evaluate(o, load, now), nil
}

// Evaluate scores a single rider for o.
func (m RiderMatcher) Evaluate(o *order.Order, load RiderLoad, now time.Time) Candidate {
	r := load.Rider
	distanceKm := r.BaseZone().DistanceKm(o.Zone())
	eta := ETAMinutes(r, o.Items(), distanceKm, load.ActiveLoad)
	onShift := r.OnShift(now)

	shiftBoost := offShiftPenalty
	if onShift {
		shiftBoost = onShiftBonus
	}
	score := 130 - float64(eta) - 2*distanceKm - 25*r.Utilization(load.ActiveLoad) + 12*r.AcceptanceRate() + shiftBoost

	return Candidate{
		RiderID:    r.ID(),
		RiderName:  r.Name(),
		ETAMinutes: eta,
		DistanceKm: round2(distanceKm),
		ActiveLoad: load.ActiveLoad,
		Score:      round2(score),
		OnShift:    onShift,
		Eligible:   onShift && r.HasCapacity(load.ActiveLoad),
	}
}

// ETAMinutes estimates minutes until drop-off for a rider carrying activeLoad orders.
func ETAMinutes(r *rider.Rider, items []order.Item, distanceKm float64, activeLoad int) int {
	raw := float64(BaseServiceMinutes(items)) + r.TravelMinutes(distanceKm) + float64(loadPenaltyMinutes*activeLoad)
	return max(minETAMinutes, int(math.Round(raw)))
}

// BaseServiceMinutes is the handling time implied by the categories in the
// order. Stays dominate errands, which dominate food, then groceries.
func BaseServiceMinutes(items []order.Item) int {
	present := make(map[order.Category]bool, len(items))
	for _, item := range items {
		present[item.Category] = true
	}

	switch {
	case present[order.CategoryAirbnb]:
		return 35
	case present[order.CategoryErrands]:
		return 18
	case present[order.CategoryFood]:
		return 14
	case present[order.CategoryGroceries]:
		return 16
	default:
		return 15
	}
}

func compareCandidates(a, b Candidate) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	case a.ETAMinutes != b.ETAMinutes:
		return a.ETAMinutes - b.ETAMinutes
	default:
		return strings.Compare(a.RiderID, b.RiderID)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
