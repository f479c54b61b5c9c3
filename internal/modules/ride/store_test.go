// README: Postgres-backed gateway and race tests (run with -race, needs RIDEHUB_TEST_DSN).
package ride

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
	"ridehub/migrations"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("RIDEHUB_TEST_DSN")
	if dsn == "" {
		t.Skip("RIDEHUB_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Apply(ctx, db), "apply migration")
	require.NoError(t, migrations.Truncate(ctx, db), "truncate tables")
	return db
}

func newDBService(t *testing.T) (*Service, *Store, *vehicle.Store) {
	db := setupTestDB(t)
	store := NewStore(db)
	vehicles := vehicle.NewStore(db)
	return NewService(Deps{Gateway: store, Vehicles: vehicles}), store, vehicles
}

func TestStoreConcurrentClaimsSameRide(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newDBService(t)

	res, err := svc.CreateRide(ctx, CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_race",
		Pickup:     Place{Address: "1 Main St"},
		Dropoff:    Place{Address: "2 Main St"},
		RiderCount: 1,
	})
	require.NoError(t, err)
	rideID := res.Ride.ID

	const attempts = 8
	actors := make([]authz.Actor, attempts)
	for i := range actors {
		actors[i] = authz.Actor{ID: types.ID(fmt.Sprintf("d%d", i)), OrgID: testOrg, Roles: authz.NewRoleSet(authz.RoleDriver)}
		r, err := svc.RequestClaim(ctx, RequestCommand{RideID: rideID, Actor: actors[i]})
		require.NoError(t, err)
		require.Equal(t, OutcomeOK, r.Outcome)
	}

	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)
	for _, a := range actors {
		wg.Add(1)
		go func(a authz.Actor) {
			defer wg.Done()
			r, err := svc.ResolveClaim(ctx, ClaimCommand{RideID: rideID, Actor: a})
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			outcomes <- r.Outcome
		}(a)
	}
	wg.Wait()
	close(outcomes)

	success := 0
	for o := range outcomes {
		switch o {
		case OutcomeAssigned:
			success++
		case OutcomeAlreadyClaimed:
		default:
			t.Fatalf("unexpected outcome: %s", o)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	final, err := store.GetRide(ctx, rideID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, final.Status)
	require.NotNil(t, final.DriverID)

	pending, err := store.ListPendingRequests(ctx, rideID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, *final.DriverID, pending[0].DriverID)
}

func TestStoreClaimVersusCancel(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newDBService(t)

	res, err := svc.CreateRide(ctx, CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_cancel",
		Pickup:     Place{Address: "1 Main St"},
		Dropoff:    Place{Address: "2 Main St"},
		RiderCount: 1,
	})
	require.NoError(t, err)
	rideID := res.Ride.ID
	r, err := svc.RequestClaim(ctx, RequestCommand{RideID: rideID, Actor: driverA})
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, r.Outcome)

	var wg sync.WaitGroup
	var claim, cancel Result
	wg.Add(2)
	go func() {
		defer wg.Done()
		claim, _ = svc.ResolveClaim(ctx, ClaimCommand{RideID: rideID, Actor: driverA})
	}()
	go func() {
		defer wg.Done()
		cancel, _ = svc.Cancel(ctx, TransitionCommand{RideID: rideID, Actor: dispatcher, Reason: "race"})
	}()
	wg.Wait()

	final, err := store.GetRide(ctx, rideID)
	require.NoError(t, err)
	switch final.Status {
	case StatusCancelled:
		assert.Equal(t, OutcomeOK, cancel.Outcome)
		if claim.Outcome == OutcomeAssigned {
			require.NotNil(t, final.DriverID)
		}
	case StatusScheduled:
		assert.Equal(t, OutcomeAssigned, claim.Outcome)
		assert.NotEqual(t, OutcomeOK, cancel.Outcome)
	default:
		t.Fatalf("unexpected final status: %s", final.Status)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, store, vehicles := newDBService(t)

	require.NoError(t, vehicles.Create(ctx, &vehicle.Vehicle{
		ID: "van_1", OwnerDriverID: driverA.ID, Label: "Blue van", Active: true, NonDriverSeats: 6, CreatedAt: time.Now().UTC(),
	}))

	res, err := svc.CreateRide(ctx, CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_rt",
		Pickup:     Place{Address: "1 Main St", Lat: 40.1, Lng: -75.2},
		Dropoff:    Place{Address: "2 Main St"},
		RiderCount: 3,
		Notes:      "wheelchair",
	})
	require.NoError(t, err)
	rideID := res.Ride.ID

	got, err := store.GetRide(ctx, rideID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.Pickup.Address)
	assert.Equal(t, 40.1, got.Pickup.Lat)
	assert.Equal(t, "wheelchair", got.Notes)
	assert.Nil(t, got.EstimatedMiles)

	opened, err := store.OpenRideRequest(ctx, &RideRequest{RideID: rideID, DriverID: driverA.ID, OrgID: testOrg, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.True(t, opened)
	opened, err = store.OpenRideRequest(ctx, &RideRequest{RideID: rideID, DriverID: driverA.ID, OrgID: testOrg, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.False(t, opened)

	claim, err := svc.ResolveClaim(ctx, ClaimCommand{RideID: rideID, Actor: driverA, VehicleID: types.ID("van_1").Ptr()})
	require.NoError(t, err)
	require.Equal(t, OutcomeAssigned, claim.Outcome)

	got, err = store.GetRide(ctx, rideID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedVehicleID)
	assert.Equal(t, types.ID("van_1"), *got.AssignedVehicleID)
	assert.Equal(t, 1, got.StatusVersion)
	assert.WithinDuration(t, claim.Ride.UpdatedAt, got.UpdatedAt, time.Millisecond)

	ok, err := store.UpdateRideIfStatus(ctx, rideID, StatusScheduled, Patch{Status: StatusInProgress, IfDriver: types.ID("someone_else").Ptr()})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.UpdateRideWithRecord(ctx, rideID, StatusInProgress, Patch{Status: StatusReported},
		&CompletionRecord{RideID: rideID, ReportedBy: driverB.ID, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.GetCompletionRecord(ctx, rideID)
	assert.ErrorIs(t, err, ErrNotFound)

	rep, err := svc.ReportCompletion(ctx, ReportCommand{RideID: rideID, Actor: driverA, Payload: validPayload()})
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, rep.Outcome)

	conf, err := svc.ConfirmCompletion(ctx, ConfirmCommand{RideID: rideID, Actor: dispatcher})
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, conf.Outcome)

	rec, err := store.GetCompletionRecord(ctx, rideID)
	require.NoError(t, err)
	assert.Equal(t, driverA.ID, rec.ReportedBy)
	require.NotNil(t, rec.ConfirmedBy)
	assert.Equal(t, dispatcher.ID, *rec.ConfirmedBy)

	_, err = store.GetRide(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
