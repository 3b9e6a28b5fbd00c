package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
)

// RiderDirectory serves the roster configured at startup. It is read-only,
// so no locking is needed.
type RiderDirectory struct {
	riders []*rider.Rider
	byID   map[string]*rider.Rider
}

// NewRiderDirectory rejects invalid and duplicate riders.
func NewRiderDirectory(riders ...*rider.Rider) (*RiderDirectory, error) {
	d := &RiderDirectory{byID: make(map[string]*rider.Rider, len(riders))}
	for _, r := range riders {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := d.byID[r.ID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("riders", fmt.Errorf("duplicate rider id %q", r.ID()))
		}
		d.byID[r.ID()] = r
		d.riders = append(d.riders, r)
	}
	slices.SortFunc(d.riders, func(a, b *rider.Rider) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return d, nil
}

func (d *RiderDirectory) List(_ context.Context) ([]*rider.Rider, error) {
	return slices.Clone(d.riders), nil
}

func (d *RiderDirectory) Get(_ context.Context, id string) (*rider.Rider, error) {
	r, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, errs.NewObjectNotFoundError("rider", id)
	}
	return r, nil
}
