package ride

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridehub/internal/types"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusRequested, StatusScheduled, true},
		{StatusRequested, StatusCancelled, true},
		{StatusRequested, StatusInProgress, false},
		{StatusScheduled, StatusRequested, true},
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusReported, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusInProgress, StatusReported, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusReported, StatusCompleted, true},
		{StatusReported, StatusCancelled, false},
		{StatusCompleted, StatusReported, false},
		{StatusCancelled, StatusRequested, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCompletionPayloadValidate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	p := &CompletionPayload{ActualStart: start, ActualEnd: start.Add(90 * time.Minute), MilesDriven: 3}
	require.NoError(t, p.Validate())
	assert.InDelta(t, 1.5, p.Hours, 1e-9)

	kept := &CompletionPayload{ActualStart: start, ActualEnd: start.Add(time.Hour), Hours: 2}
	require.NoError(t, kept.Validate())
	assert.Equal(t, 2.0, kept.Hours)

	bad := []*CompletionPayload{
		nil,
		{ActualEnd: start},
		{ActualStart: start, ActualEnd: start.Add(-time.Minute)},
		{ActualStart: start, ActualEnd: start, MilesDriven: -1},
		{ActualStart: start, ActualEnd: start, Hours: -1},
		{ActualStart: start, ActualEnd: start, DonationAmount: types.Money{Amount: -5, Currency: "USD"}},
	}
	for i, b := range bad {
		assert.Error(t, b.Validate(), "case %d", i)
	}
}

func TestApplyPatch(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	base := &Ride{ID: "r1", Status: StatusRequested}

	assigned := applyPatch(base, Patch{Status: StatusScheduled, DriverID: types.ID("d1").Ptr(), VehicleID: types.ID("v1").Ptr()}, now)
	assert.Equal(t, StatusScheduled, assigned.Status)
	assert.Equal(t, 1, assigned.StatusVersion)
	assert.True(t, assigned.AssignedTo("d1"))
	require.NotNil(t, assigned.AssignedVehicleID)
	assert.Equal(t, types.ID("v1"), *assigned.AssignedVehicleID)
	assert.Equal(t, StatusRequested, base.Status)

	cleared := applyPatch(assigned, Patch{Status: StatusRequested, ClearAssignment: true}, now)
	assert.Nil(t, cleared.DriverID)
	assert.Nil(t, cleared.AssignedVehicleID)
	assert.Equal(t, 2, cleared.StatusVersion)

	started := applyPatch(assigned, Patch{Status: StatusInProgress}, now)
	assert.True(t, started.AssignedTo("d1"))
	assert.NotNil(t, started.AssignedVehicleID)
}
