package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DispatchMode tells how a rider was chosen.
type DispatchMode string

const (
	DispatchModeAuto   DispatchMode = "auto"
	DispatchModeManual DispatchMode = "manual"
)

// DispatchMeta describes an assignment decision.
type DispatchMeta struct {
	Mode         DispatchMode         `json:"mode"`
	RiderID      string               `json:"riderId"`
	RiderName    string               `json:"riderName"`
	ETAMinutes   int                  `json:"etaMinutes"`
	DistanceKm   float64              `json:"distanceKm"`
	Score        float64              `json:"score"`
	Alternatives []services.Candidate `json:"alternatives"`
}

// dispatcher applies matcher decisions to orders. Loads are read from the
// repository of the current unit of work on every call, so an assignment
// made earlier in the same batch is already counted.
type dispatcher struct {
	riders  ports.RiderDirectory
	matcher services.RiderMatcher
}

func (d dispatcher) riderLoads(ctx context.Context, repo ports.OrderReader) ([]services.RiderLoad, error) {
	riders, err := d.riders.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := repo.ActiveLoads(ctx)
	if err != nil {
		return nil, err
	}

	loads := make([]services.RiderLoad, 0, len(riders))
	for _, r := range riders {
		loads = append(loads, services.RiderLoad{Rider: r, ActiveLoad: active[r.ID()]})
	}
	return loads, nil
}

// assign hands o to riderID, or to the best ranked rider when riderID is
// empty, and writes it through repo.
//
// An automatic attempt that finds nobody clears the redispatch exclusion,
// writes that change and returns services.ErrNoRider; callers commit in that
// case so the excluded rider is eligible next time.
func (d dispatcher) assign(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	riderID string,
	now time.Time,
) (DispatchMeta, error) {
	if !o.IsAwaitingDispatch() {
		return DispatchMeta{}, fmt.Errorf("%w: order %s is %s", order.ErrNotReady, o.ID(), o.Status())
	}

	var (
		meta DispatchMeta
		err  error
	)
	if riderID != "" {
		meta, err = d.manual(ctx, repo, o, riderID, now)
	} else {
		meta, err = d.auto(ctx, repo, o, now)
	}
	if err != nil {
		return DispatchMeta{}, err
	}

	if err = o.Assign(meta.RiderID, now); err != nil {
		return DispatchMeta{}, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return DispatchMeta{}, err
	}
	return meta, nil
}

func (d dispatcher) manual(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	riderID string,
	now time.Time,
) (DispatchMeta, error) {
	r, err := d.riders.Get(ctx, riderID)
	if err != nil {
		return DispatchMeta{}, err
	}
	active, err := repo.ActiveLoads(ctx)
	if err != nil {
		return DispatchMeta{}, err
	}

	c, err := d.matcher.CheckManual(o, services.RiderLoad{Rider: r, ActiveLoad: active[r.ID()]}, now)
	if err != nil {
		return DispatchMeta{}, fmt.Errorf("rider %s: %w", riderID, err)
	}
	return metaFrom(DispatchModeManual, c, nil), nil
}

func (d dispatcher) auto(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	now time.Time,
) (DispatchMeta, error) {
	loads, err := d.riderLoads(ctx, repo)
	if err != nil {
		return DispatchMeta{}, err
	}

	decision, err := d.matcher.Match(o, loads, now)
	if errors.Is(err, services.ErrNoRider) && o.ExcludedRiderID() != nil {
		o.ClearExclusion()
		if updateErr := repo.Update(ctx, o); updateErr != nil {
			return DispatchMeta{}, updateErr
		}
	}
	if err != nil {
		return DispatchMeta{}, err
	}

	return metaFrom(DispatchModeAuto, decision.Winner, decision.Alternatives), nil
}

func metaFrom(mode DispatchMode, c services.Candidate, alternatives []services.Candidate) DispatchMeta {
	return DispatchMeta{
		Mode:         mode,
		RiderID:      c.RiderID,
		RiderName:    c.RiderName,
		ETAMinutes:   c.ETAMinutes,
		DistanceKm:   c.DistanceKm,
		Score:        c.Score,
		Alternatives: alternatives,
	}
}
