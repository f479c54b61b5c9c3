// README: Driver requests and claim resolution. Exactly one claim wins a ride.
package ride

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/observability"
	"ridehub/internal/types"
)

type RequestCommand struct {
	RideID types.ID
	Actor  authz.Actor
}

// ClaimCommand is a driver turning their pending request into the assignment.
type ClaimCommand struct {
	RideID    types.ID
	Actor     authz.Actor
	VehicleID *types.ID
}

// ForceAssignCommand assigns DriverID without a pending request.
type ForceAssignCommand struct {
	RideID    types.ID
	Actor     authz.Actor
	DriverID  types.ID
	VehicleID *types.ID
}

func (s *Service) RequestClaim(ctx context.Context, cmd RequestCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if !cmd.Actor.IsDriver() || cmd.Actor.OrgID != r.OrgID {
		return reject(OutcomeForbidden, "only drivers of the ride's organisation may request it"), nil
	}
	if r.Status != StatusRequested {
		return reject(OutcomeRideNotOpen, "ride is "+string(r.Status)), nil
	}

	now := s.now()
	opened, err := s.gw.OpenRideRequest(ctx, &RideRequest{
		RideID:    r.ID,
		DriverID:  cmd.Actor.ID,
		OrgID:     r.OrgID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("open ride request: %w", err)
	}
	if !opened {
		return reject(OutcomeAlreadyRequested, "request already pending"), nil
	}

	// A claim may have won between the status read and the insert; its sweep
	// would then have missed this row.
	cur, err := s.load(ctx, r.ID)
	if err != nil || cur == nil {
		return notFound(err)
	}
	if cur.Status != StatusRequested {
		if err := s.gw.MarkDenied(ctx, r.ID, []types.ID{cmd.Actor.ID}); err != nil {
			return Result{}, fmt.Errorf("deny late request: %w", err)
		}
		return reject(OutcomeRideNotOpen, "ride is "+string(cur.Status)), nil
	}
	return ok(cur), nil
}

func (s *Service) WithdrawRequest(ctx context.Context, cmd RequestCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if r.Status != StatusRequested {
		return reject(OutcomeRideNotOpen, "ride is "+string(r.Status)), nil
	}
	rr, err := s.gw.GetRideRequest(ctx, r.ID, cmd.Actor.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Result{}, fmt.Errorf("get ride request: %w", err)
	}
	if rr == nil || rr.Denied {
		return reject(OutcomeNotRequested, "no pending request"), nil
	}
	if err := s.gw.MarkDenied(ctx, r.ID, []types.ID{cmd.Actor.ID}); err != nil {
		return Result{}, fmt.Errorf("withdraw request: %w", err)
	}
	return ok(r), nil
}

func (s *Service) ResolveClaim(ctx context.Context, cmd ClaimCommand) (Result, error) {
	res, err := s.resolveClaim(ctx, cmd)
	s.observeClaim(cmd.RideID, cmd.Actor.ID, false, res, err)
	return res, err
}

func (s *Service) resolveClaim(ctx context.Context, cmd ClaimCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}

	rr, err := s.gw.GetRideRequest(ctx, r.ID, cmd.Actor.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Result{}, fmt.Errorf("get ride request: %w", err)
	}
	if rr == nil {
		return reject(OutcomeNotRequested, "no pending request"), nil
	}
	if rr.Denied {
		// The winner's sweep may have denied this request after the first read.
		cur := r
		if cur.Status == StatusRequested {
			if cur, err = s.load(ctx, r.ID); err != nil || cur == nil {
				return notFound(err)
			}
		}
		if cur.Status != StatusRequested {
			return claimLost(cur), nil
		}
		return reject(OutcomeNotRequested, "no pending request"), nil
	}
	if r.Status != StatusRequested {
		return claimLost(r), nil
	}
	return s.assign(ctx, r, cmd.Actor.ID, cmd.VehicleID, cmd.Actor.ID, false)
}

// ForceAssign lets a dispatcher assign any driver of the organisation,
// bypassing the request step. Capacity is still enforced. Without a
// DriverDirectory the assignee ID is taken as given.
func (s *Service) ForceAssign(ctx context.Context, cmd ForceAssignCommand) (Result, error) {
	res, err := s.forceAssign(ctx, cmd)
	s.observeClaim(cmd.RideID, cmd.DriverID, true, res, err)
	return res, err
}

func (s *Service) forceAssign(ctx context.Context, cmd ForceAssignCommand) (Result, error) {
	if cmd.DriverID == "" {
		return reject(OutcomeInvalidSpec, "driver is required"), nil
	}
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if !s.authz.CanActOnRide(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "dispatch authority required"), nil
	}
	if r.Status != StatusRequested {
		return claimLost(r), nil
	}
	if s.drivers != nil {
		member, err := s.drivers.IsDriverIn(ctx, r.OrgID, cmd.DriverID)
		if err != nil {
			return Result{}, fmt.Errorf("look up driver %s: %w", cmd.DriverID, err)
		}
		if !member {
			return reject(OutcomeInvalidSpec, "assignee is not a driver of the ride's organisation"), nil
		}
	}
	return s.assign(ctx, r, cmd.DriverID, cmd.VehicleID, cmd.Actor.ID, true)
}

// assign validates the vehicle and performs the single exclusive
// Requested->Scheduled update. The winner sweeps competing requests.
func (s *Service) assign(ctx context.Context, r *Ride, driverID types.ID, vehicleID *types.ID, actorID types.ID, forced bool) (Result, error) {
	if vehicleID != nil {
		if res, rejected, err := s.checkVehicle(ctx, r, driverID, *vehicleID); err != nil || rejected {
			return res, err
		}
	}

	next, err := s.transition(ctx, r, Patch{Status: StatusScheduled, DriverID: &driverID, VehicleID: vehicleID})
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		cur, err := s.load(ctx, r.ID)
		if err != nil || cur == nil {
			return notFound(err)
		}
		return claimLost(cur), nil
	}

	if err := s.denyPending(ctx, r.ID, driverID); err != nil {
		s.log.Error("deny competing requests failed",
			zap.String("ride_id", r.ID.String()), zap.String("driver_id", driverID.String()), zap.Error(err))
	}
	ev := newEvent(EventAssigned, next, actorID, StatusRequested, next.UpdatedAt)
	ev.Forced = forced
	s.emit(ctx, ev)
	return Result{Outcome: OutcomeAssigned, Ride: next, VehicleID: next.AssignedVehicleID}, nil
}

func (s *Service) checkVehicle(ctx context.Context, r *Ride, driverID, vehicleID types.ID) (Result, bool, error) {
	if s.vehicles == nil {
		return reject(OutcomeInvalidVehicle, "vehicle lookup unavailable"), true, nil
	}
	v, err := s.vehicles.Get(ctx, vehicleID)
	if errors.Is(err, vehicle.ErrNotFound) {
		return reject(OutcomeInvalidVehicle, "vehicle not found"), true, nil
	}
	if err != nil {
		return Result{}, true, fmt.Errorf("get vehicle %s: %w", vehicleID, err)
	}

	err = ValidateCapacity(r, v, driverID)
	var capErr *CapacityError
	var vehErr *VehicleError
	switch {
	case err == nil:
		return Result{}, false, nil
	case errors.As(err, &capErr):
		return Result{
			Outcome:   OutcomeCapacityRejected,
			VehicleID: &v.ID,
			Required:  capErr.Required,
			Available: capErr.Available,
			Reason:    capErr.Error(),
		}, true, nil
	case errors.As(err, &vehErr):
		return Result{Outcome: OutcomeInvalidVehicle, VehicleID: &v.ID, Reason: vehErr.Reason}, true, nil
	default:
		return Result{}, true, err
	}
}

// claimLost names why a ride that left Requested can no longer be claimed.
func claimLost(cur *Ride) Result {
	if cur.Status == StatusCancelled {
		return reject(OutcomeRideNotClaimable, "ride was cancelled")
	}
	return Result{Outcome: OutcomeAlreadyClaimed, Ride: cur, Reason: "ride already claimed"}
}

func (s *Service) observeClaim(rideID, driverID types.ID, forced bool, res Result, err error) {
	outcome := string(res.Outcome)
	if err != nil {
		outcome = "error"
	}
	observability.ClaimsTotal.WithLabelValues(outcome).Inc()
	fields := []zap.Field{
		zap.String("ride_id", rideID.String()),
		zap.String("driver_id", driverID.String()),
		zap.String("outcome", outcome),
		zap.Bool("forced", forced),
	}
	if err != nil {
		s.log.Error("claim failed", append(fields, zap.Error(err))...)
		return
	}
	s.log.Info("claim resolved", fields...)
}
