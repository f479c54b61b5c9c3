// README: Collaborator contracts the engine depends on.
package ride

import (
	"context"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
)

//go:generate mockgen -source=gateway.go -destination=mocks/gateway_mock.go -package=mocks

// Gateway is the persistence contract. UpdateRideIfStatus is the only
// mutation that decides contention: it reports true only when the ride was
// still in expected (and matched the patch predicates) at write time.
type Gateway interface {
	CreateRide(ctx context.Context, r *Ride) error
	GetRide(ctx context.Context, id types.ID) (*Ride, error)
	UpdateRideIfStatus(ctx context.Context, id types.ID, expected Status, p Patch) (bool, error)

	// OpenRideRequest inserts a pending request or re-opens a denied one.
	// It reports false when a pending request already exists.
	OpenRideRequest(ctx context.Context, rr *RideRequest) (bool, error)
	GetRideRequest(ctx context.Context, rideID, driverID types.ID) (*RideRequest, error)
	ListPendingRequests(ctx context.Context, rideID types.ID) ([]*RideRequest, error)
	MarkDenied(ctx context.Context, rideID types.ID, driverIDs []types.ID) error

	// UpdateRideWithRecord is UpdateRideIfStatus plus a completion record
	// upsert, committed together. On false or error neither is written.
	UpdateRideWithRecord(ctx context.Context, id types.ID, expected Status, p Patch, rec *CompletionRecord) (bool, error)
	GetCompletionRecord(ctx context.Context, rideID types.ID) (*CompletionRecord, error)
}

type VehicleSource interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

type Authorizer interface {
	CanActOnRide(ctx context.Context, actor authz.Actor, ride authz.Ride) bool
	CanDispatchIn(ctx context.Context, actor authz.Actor, org types.ID) bool
}

// DriverDirectory answers whether driverID is a driver of org. Force-assign
// consults it when configured.
type DriverDirectory interface {
	IsDriverIn(ctx context.Context, org, driverID types.ID) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type DistanceEstimator interface {
	EstimateMiles(ctx context.Context, origin, destination string) (float64, error)
}
