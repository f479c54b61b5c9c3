package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatsIncludeDriver(t *testing.T) {
	v := &Vehicle{NonDriverSeats: 2}
	assert.Equal(t, 3, v.Seats())
}

func TestActivateLeavesOneActiveVehicle(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, m.Create(ctx, &Vehicle{ID: "v1", OwnerDriverID: "d1", Active: true, NonDriverSeats: 2, CreatedAt: base}))
	require.NoError(t, m.Create(ctx, &Vehicle{ID: "v2", OwnerDriverID: "d1", NonDriverSeats: 4, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, m.Create(ctx, &Vehicle{ID: "v3", OwnerDriverID: "d2", Active: true, NonDriverSeats: 1, CreatedAt: base}))

	require.NoError(t, m.Activate(ctx, "d1", "v2"))

	list, err := m.ListByOwner(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Active)
	assert.True(t, list[1].Active)

	other, err := m.Get(ctx, "v3")
	require.NoError(t, err)
	assert.True(t, other.Active)
}

func TestActivateRejectsForeignVehicle(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	require.NoError(t, m.Create(ctx, &Vehicle{ID: "v1", OwnerDriverID: "d1"}))

	assert.ErrorIs(t, m.Activate(ctx, "d2", "v1"), ErrNotFound)
	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
