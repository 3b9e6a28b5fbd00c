package order_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every lifecycle status", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			t.Run(fmt.Sprintf("should validate %s status", status), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject out of range status", func(t *testing.T) {
		err := order.Status(99).Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "99 is not a valid status")
	})
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    order.Status
		wantErr bool
	}{
		{raw: "CREATED", want: order.Created},
		{raw: "ready_for_pickup", want: order.ReadyForPickup},
		{raw: " on_the_way ", want: order.OnTheWay},
		{raw: "CANCELLED", want: order.Cancelled},
		{raw: "UNKNOWN", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "SHIPPED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := order.ParseStatus(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Created:        {order.Confirmed, order.Cancelled},
		order.Confirmed:      {order.Preparing, order.Cancelled},
		order.Preparing:      {order.ReadyForPickup, order.Cancelled},
		order.ReadyForPickup: {order.Assigned, order.Cancelled},
		order.Assigned:       {order.PickedUp, order.Cancelled},
		order.PickedUp:       {order.OnTheWay, order.Cancelled},
		order.OnTheWay:       {order.Delivered, order.Cancelled},
		order.Delivered:      {order.Completed},
		order.Completed:      {},
		order.Cancelled:      {},
	}

	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))
				err := from.ValidateTransition(to)
				if want {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, order.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestStatus_Classification(t *testing.T) {
	t.Run("should mark only completed and cancelled as terminal", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			want := s == order.Completed || s == order.Cancelled
			assert.Equal(t, want, s.IsTerminal(), s.String())
			assert.Equal(t, want, len(s.AllowedTransitions()) == 0, s.String())
		}
	})

	t.Run("should count rider-held statuses as active load", func(t *testing.T) {
		for _, s := range order.ActiveLoadStatuses() {
			assert.True(t, s.HoldsRider(), s.String())
		}
		assert.False(t, order.ReadyForPickup.HoldsRider())
		assert.False(t, order.Completed.HoldsRider())
		assert.False(t, order.Cancelled.HoldsRider())
	})

	t.Run("should not leak the table through AllowedTransitions", func(t *testing.T) {
		next := order.Created.AllowedTransitions()
		next[0] = order.Completed

		assert.True(t, order.Created.CanTransitionTo(order.Confirmed))
		assert.False(t, order.Created.CanTransitionTo(order.Completed))
	})
}

func TestStatus_JSON(t *testing.T) {
	t.Run("should encode wire names", func(t *testing.T) {
		data, err := json.Marshal(map[string]order.Status{"status": order.ReadyForPickup})

		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"READY_FOR_PICKUP"}`, string(data))
	})

	t.Run("should decode wire names", func(t *testing.T) {
		var payload struct {
			Status order.Status `json:"status"`
		}

		require.NoError(t, json.Unmarshal([]byte(`{"status":"picked_up"}`), &payload))
		assert.Equal(t, order.PickedUp, payload.Status)
	})

	t.Run("should reject unknown wire names", func(t *testing.T) {
		var payload struct {
			Status order.Status `json:"status"`
		}

		err := json.Unmarshal([]byte(`{"status":"LOST"}`), &payload)
		assert.Error(t, err)
	})
}
