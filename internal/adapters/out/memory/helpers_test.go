package memory_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"

	"github.com/stretchr/testify/require"
)

func newRider(t *testing.T, id string) *rider.Rider {
	t.Helper()
	shift, err := rider.NewShift(6, 22)
	require.NoError(t, err)
	r, err := rider.NewRider(id, "Rider "+id, "", kernel.ZoneCBD, shift, 30, 2, 0.9)
	require.NoError(t, err)
	return r
}
