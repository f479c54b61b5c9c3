package ride

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
)

const testOrg types.ID = "org_1"

var (
	dispatcher = authz.Actor{ID: "disp_1", OrgID: testOrg, Roles: authz.NewRoleSet(authz.RoleDispatcher)}
	driverA    = authz.Actor{ID: "drv_a", OrgID: testOrg, Roles: authz.NewRoleSet(authz.RoleDriver)}
	driverB    = authz.Actor{ID: "drv_b", OrgID: testOrg, Roles: authz.NewRoleSet(authz.RoleDriver)}
	outsider   = authz.Actor{ID: "drv_x", OrgID: "org_2", Roles: authz.NewRoleSet(authz.RoleDriver, authz.RoleDispatcher)}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) kinds() []EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type harness struct {
	svc      *Service
	store    *MemStore
	vehicles *vehicle.MemStore
	events   *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, func(*Deps) {})
}

func newHarnessWith(t *testing.T, opt func(d *Deps)) *harness {
	t.Helper()
	h := &harness{
		store:    NewMemStore(),
		vehicles: vehicle.NewMemStore(),
		events:   &recordingPublisher{},
	}
	d := Deps{
		Gateway:   h.store,
		Vehicles:  h.vehicles,
		Publisher: h.events,
		Clock:     func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) },
	}
	opt(&d)
	h.svc = NewService(d)
	return h
}

// hookedGateway runs a callback once at a chosen point inside MemStore calls,
// so a competing operation can be interleaved deterministically.
type hookedGateway struct {
	*MemStore
	beforeOpen     func()
	afterGetRecord func()
	recordWriteErr error
}

func newHookedHarness(t *testing.T) (*harness, *hookedGateway) {
	t.Helper()
	var g *hookedGateway
	h := newHarnessWith(t, func(d *Deps) {
		g = &hookedGateway{MemStore: d.Gateway.(*MemStore)}
		d.Gateway = g
	})
	return h, g
}

func (g *hookedGateway) OpenRideRequest(ctx context.Context, rr *RideRequest) (bool, error) {
	if f := g.beforeOpen; f != nil {
		g.beforeOpen = nil
		f()
	}
	return g.MemStore.OpenRideRequest(ctx, rr)
}

func (g *hookedGateway) GetCompletionRecord(ctx context.Context, rideID types.ID) (*CompletionRecord, error) {
	rec, err := g.MemStore.GetCompletionRecord(ctx, rideID)
	if f := g.afterGetRecord; f != nil {
		g.afterGetRecord = nil
		f()
	}
	return rec, err
}

func (g *hookedGateway) UpdateRideWithRecord(ctx context.Context, id types.ID, expected Status, p Patch, rec *CompletionRecord) (bool, error) {
	if g.recordWriteErr != nil {
		return false, g.recordWriteErr
	}
	return g.MemStore.UpdateRideWithRecord(ctx, id, expected, p, rec)
}

// driverRoster maps driver IDs to their organisation.
type driverRoster map[types.ID]types.ID

func (d driverRoster) IsDriverIn(_ context.Context, org, driverID types.ID) (bool, error) {
	got, ok := d[driverID]
	return ok && got == org, nil
}

func (h *harness) createRide(t *testing.T, riders int) *Ride {
	t.Helper()
	res, err := h.svc.CreateRide(context.Background(), CreateCommand{
		Actor:      dispatcher,
		ClientID:   "client_1",
		Pickup:     Place{Address: "12 Elm St"},
		Dropoff:    Place{Address: "400 Clinic Rd"},
		RiderCount: riders,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, res.Outcome)
	return res.Ride
}

func (h *harness) addVehicle(t *testing.T, id types.ID, owner authz.Actor, nonDriverSeats int) {
	t.Helper()
	require.NoError(t, h.vehicles.Create(context.Background(), &vehicle.Vehicle{
		ID:             id,
		OwnerDriverID:  owner.ID,
		Active:         true,
		NonDriverSeats: nonDriverSeats,
	}))
}

func (h *harness) request(t *testing.T, rideID types.ID, actor authz.Actor) {
	t.Helper()
	res, err := h.svc.RequestClaim(context.Background(), RequestCommand{RideID: rideID, Actor: actor})
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, res.Outcome, res.Reason)
}

func (h *harness) claim(t *testing.T, rideID types.ID, actor authz.Actor, vehicleID *types.ID) Result {
	t.Helper()
	res, err := h.svc.ResolveClaim(context.Background(), ClaimCommand{RideID: rideID, Actor: actor, VehicleID: vehicleID})
	require.NoError(t, err)
	return res
}

func (h *harness) ride(t *testing.T, id types.ID) *Ride {
	t.Helper()
	r, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	return r
}

func (h *harness) requestOf(t *testing.T, rideID, driverID types.ID) *RideRequest {
	t.Helper()
	rr, err := h.store.GetRideRequest(context.Background(), rideID, driverID)
	require.NoError(t, err)
	return rr
}

func validPayload() *CompletionPayload {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &CompletionPayload{
		ActualStart: start,
		ActualEnd:   start.Add(90 * time.Minute),
		MilesDriven: 14.2,
	}
}
