// README: Ride lifecycle controller: creation, unassign, trip start, completion and cancel.
package ride

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ridehub/internal/modules/authz"
	"ridehub/internal/observability"
	"ridehub/internal/types"
)

type Deps struct {
	Gateway    Gateway
	Vehicles   VehicleSource
	Authorizer Authorizer
	Publisher  Publisher
	Distance   DistanceEstimator
	Drivers    DriverDirectory
	Logger     *zap.Logger
	Clock      func() time.Time
}

type Service struct {
	gw       Gateway
	vehicles VehicleSource
	authz    Authorizer
	events   Publisher
	distance DistanceEstimator
	drivers  DriverDirectory
	log      *zap.Logger
	now      func() time.Time
}

func NewService(d Deps) *Service {
	s := &Service{
		gw:       d.Gateway,
		vehicles: d.Vehicles,
		authz:    d.Authorizer,
		events:   d.Publisher,
		distance: d.Distance,
		drivers:  d.Drivers,
		log:      d.Logger,
		now:      d.Clock,
	}
	if s.authz == nil {
		s.authz = authz.NewPolicy()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

type CreateCommand struct {
	Actor      authz.Actor
	ClientID   types.ID
	Pickup     Place
	Dropoff    Place
	RiderCount int
	PickupAt   *time.Time
	Notes      string
}

type UnassignCommand struct {
	RideID types.ID
	Actor  authz.Actor
}

type TransitionCommand struct {
	RideID types.ID
	Actor  authz.Actor
	Reason string
}

type ReportCommand struct {
	RideID  types.ID
	Actor   authz.Actor
	Payload *CompletionPayload
}

// ConfirmCommand optionally carries a corrected payload that replaces the
// driver's report.
type ConfirmCommand struct {
	RideID  types.ID
	Actor   authz.Actor
	Payload *CompletionPayload
}

func (s *Service) CreateRide(ctx context.Context, cmd CreateCommand) (Result, error) {
	if !s.authz.CanDispatchIn(ctx, cmd.Actor, cmd.Actor.OrgID) {
		return reject(OutcomeForbidden, "dispatch authority required"), nil
	}
	if reason := validateCreate(cmd); reason != "" {
		return reject(OutcomeInvalidSpec, reason), nil
	}

	now := s.now()
	r := &Ride{
		ID:           types.NewID(),
		OrgID:        cmd.Actor.OrgID,
		ClientID:     cmd.ClientID,
		DispatcherID: cmd.Actor.ID,
		Pickup:       cmd.Pickup,
		Dropoff:      cmd.Dropoff,
		RiderCount:   cmd.RiderCount,
		PickupAt:     cmd.PickupAt,
		Notes:        strings.TrimSpace(cmd.Notes),
		Status:       StatusRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.distance != nil {
		miles, err := s.distance.EstimateMiles(ctx, r.Pickup.Address, r.Dropoff.Address)
		if err != nil {
			s.log.Warn("estimate miles failed", zap.String("ride_id", r.ID.String()), zap.Error(err))
		} else {
			r.EstimatedMiles = &miles
		}
	}
	if err := s.gw.CreateRide(ctx, r); err != nil {
		return Result{}, fmt.Errorf("create ride: %w", err)
	}
	observability.TransitionsTotal.WithLabelValues(string(StatusNone), string(StatusRequested)).Inc()
	s.emit(ctx, newEvent(EventRequested, r, cmd.Actor.ID, StatusNone, now))
	return ok(r), nil
}

func validateCreate(cmd CreateCommand) string {
	switch {
	case strings.TrimSpace(string(cmd.ClientID)) == "":
		return "client is required"
	case cmd.RiderCount < 1:
		return "rider count must be at least 1"
	case cmd.Pickup.Blank():
		return "pickup address is required"
	case cmd.Dropoff.Blank():
		return "dropoff address is required"
	}
	return ""
}

// Unassign returns a scheduled ride to the open pool. The unassigned driver's
// request is denied so it does not come back as a pending claim.
func (s *Service) Unassign(ctx context.Context, cmd UnassignCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	switch r.Status {
	case StatusRequested:
		return reject(OutcomeNotAssigned, "ride has no assignment"), nil
	case StatusScheduled:
	default:
		return wrongState(r), nil
	}
	if !s.mayDrive(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "only the assigned driver or a dispatcher may unassign"), nil
	}

	driverID := *r.DriverID
	next, err := s.transition(ctx, r, Patch{Status: StatusRequested, ClearAssignment: true, IfDriver: r.DriverID})
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		cur, err := s.load(ctx, r.ID)
		if err != nil || cur == nil {
			return notFound(err)
		}
		if cur.Status == StatusRequested {
			return reject(OutcomeNotAssigned, "ride has no assignment"), nil
		}
		return wrongState(cur), nil
	}

	if err := s.gw.MarkDenied(ctx, r.ID, []types.ID{driverID}); err != nil {
		s.log.Error("deny unassigned driver request failed",
			zap.String("ride_id", r.ID.String()), zap.String("driver_id", driverID.String()), zap.Error(err))
	}
	ev := newEvent(EventUnassigned, next, cmd.Actor.ID, StatusScheduled, next.UpdatedAt)
	ev.DriverID = &driverID
	ev.VehicleID = r.AssignedVehicleID
	s.emit(ctx, ev)
	return ok(next), nil
}

func (s *Service) StartTrip(ctx context.Context, cmd TransitionCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if r.Status != StatusScheduled {
		return wrongState(r), nil
	}
	if !s.mayDrive(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "only the assigned driver or a dispatcher may start the trip"), nil
	}
	next, err := s.transition(ctx, r, Patch{Status: StatusInProgress, IfDriver: r.DriverID})
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		return s.lostTransition(ctx, r.ID)
	}
	s.emit(ctx, newEvent(EventStarted, next, cmd.Actor.ID, StatusScheduled, next.UpdatedAt))
	return ok(next), nil
}

func (s *Service) ReportCompletion(ctx context.Context, cmd ReportCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if !CanTransition(r.Status, StatusReported) {
		return wrongState(r), nil
	}
	if !s.mayDrive(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "only the assigned driver or a dispatcher may report completion"), nil
	}
	if err := cmd.Payload.Validate(); err != nil {
		return reject(OutcomeInvalidSpec, err.Error()), nil
	}

	now := s.now()
	rec := &CompletionRecord{
		RideID:         r.ID,
		ActualStart:    cmd.Payload.ActualStart,
		ActualEnd:      cmd.Payload.ActualEnd,
		MilesDriven:    cmd.Payload.MilesDriven,
		Hours:          cmd.Payload.Hours,
		DonationAmount: cmd.Payload.DonationAmount,
		ReportedBy:     cmd.Actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	from := r.Status
	next, err := s.transitionWithRecord(ctx, r, Patch{Status: StatusReported, IfDriver: r.DriverID, At: now}, rec)
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		return s.lostTransition(ctx, r.ID)
	}
	s.emit(ctx, newEvent(EventReported, next, cmd.Actor.ID, from, now))
	return ok(next), nil
}

// ConfirmCompletion finalizes a reported ride. The confirmation and any
// correction are written only together with the Reported->Completed update,
// so a confirm answered with wrong_state leaves the record untouched.
func (s *Service) ConfirmCompletion(ctx context.Context, cmd ConfirmCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if r.Status != StatusReported {
		return wrongState(r), nil
	}
	if !s.authz.CanActOnRide(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "dispatch authority required"), nil
	}
	if cmd.Payload != nil {
		if err := cmd.Payload.Validate(); err != nil {
			return reject(OutcomeInvalidSpec, err.Error()), nil
		}
	}

	rec, err := s.gw.GetCompletionRecord(ctx, r.ID)
	if errors.Is(err, ErrNotFound) {
		rec = nil
	} else if err != nil {
		return Result{}, fmt.Errorf("get completion record %s: %w", r.ID, err)
	}

	now := s.now()
	if cmd.Payload != nil {
		if rec == nil {
			rec = &CompletionRecord{RideID: r.ID, ReportedBy: cmd.Actor.ID, CreatedAt: now}
		}
		rec.ActualStart = cmd.Payload.ActualStart
		rec.ActualEnd = cmd.Payload.ActualEnd
		rec.MilesDriven = cmd.Payload.MilesDriven
		rec.Hours = cmd.Payload.Hours
		rec.DonationAmount = cmd.Payload.DonationAmount
	}
	if rec == nil {
		return reject(OutcomeWrongState, "ride has no completion record"), nil
	}
	rec.ConfirmedBy = cmd.Actor.ID.Ptr()
	rec.ConfirmedAt = &now
	rec.UpdatedAt = now

	next, err := s.transitionWithRecord(ctx, r, Patch{Status: StatusCompleted, At: now}, rec)
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		return s.lostTransition(ctx, r.ID)
	}
	s.emit(ctx, newEvent(EventCompleted, next, cmd.Actor.ID, StatusReported, now))
	return ok(next), nil
}

// Cancel is terminal. Every pending request on the ride is voided.
func (s *Service) Cancel(ctx context.Context, cmd TransitionCommand) (Result, error) {
	r, err := s.load(ctx, cmd.RideID)
	if err != nil || r == nil {
		return notFound(err)
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return wrongState(r), nil
	}
	if !s.authz.CanActOnRide(ctx, cmd.Actor, r) {
		return reject(OutcomeForbidden, "dispatch authority required"), nil
	}

	p := Patch{Status: StatusCancelled}
	if reason := strings.TrimSpace(cmd.Reason); reason != "" {
		p.CancelReason = &reason
	}
	from := r.Status
	next, err := s.transition(ctx, r, p)
	if err != nil {
		return Result{}, err
	}
	if next == nil {
		return s.lostTransition(ctx, r.ID)
	}
	if err := s.denyPending(ctx, r.ID, ""); err != nil {
		s.log.Error("void pending requests failed", zap.String("ride_id", r.ID.String()), zap.Error(err))
	}
	s.emit(ctx, newEvent(EventCancelled, next, cmd.Actor.ID, from, next.UpdatedAt))
	return ok(next), nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.gw.GetRide(ctx, id)
}

func (s *Service) ListPendingRequests(ctx context.Context, rideID types.ID) ([]*RideRequest, error) {
	return s.gw.ListPendingRequests(ctx, rideID)
}

// load returns nil, nil for a missing ride.
func (s *Service) load(ctx context.Context, id types.ID) (*Ride, error) {
	r, err := s.gw.GetRide(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ride %s: %w", id, err)
	}
	return r, nil
}

// transition applies p when r is still in its current status. A nil ride
// with a nil error means the predicate did not match.
func (s *Service) transition(ctx context.Context, r *Ride, p Patch) (*Ride, error) {
	return s.commit(ctx, r, p, nil)
}

// transitionWithRecord is transition plus a completion record written in the
// same commit.
func (s *Service) transitionWithRecord(ctx context.Context, r *Ride, p Patch, rec *CompletionRecord) (*Ride, error) {
	return s.commit(ctx, r, p, rec)
}

func (s *Service) commit(ctx context.Context, r *Ride, p Patch, rec *CompletionRecord) (*Ride, error) {
	if !CanTransition(r.Status, p.Status) {
		return nil, nil
	}
	if p.At.IsZero() {
		p.At = s.now()
	}
	var (
		applied bool
		err     error
	)
	if rec != nil {
		applied, err = s.gw.UpdateRideWithRecord(ctx, r.ID, r.Status, p, rec)
	} else {
		applied, err = s.gw.UpdateRideIfStatus(ctx, r.ID, r.Status, p)
	}
	if err != nil {
		return nil, fmt.Errorf("update ride %s %s->%s: %w", r.ID, r.Status, p.Status, err)
	}
	if !applied {
		return nil, nil
	}
	observability.TransitionsTotal.WithLabelValues(string(r.Status), string(p.Status)).Inc()
	return applyPatch(r, p, p.At), nil
}

func (s *Service) lostTransition(ctx context.Context, id types.ID) (Result, error) {
	cur, err := s.load(ctx, id)
	if err != nil || cur == nil {
		return notFound(err)
	}
	return wrongState(cur), nil
}

func (s *Service) mayDrive(ctx context.Context, actor authz.Actor, r *Ride) bool {
	if actor.ID != "" && r.AssignedTo(actor.ID) {
		return true
	}
	return s.authz.CanActOnRide(ctx, actor, r)
}

// denyPending denies every pending request on the ride except keep's.
func (s *Service) denyPending(ctx context.Context, rideID, keep types.ID) error {
	pending, err := s.gw.ListPendingRequests(ctx, rideID)
	if err != nil {
		return fmt.Errorf("list pending requests: %w", err)
	}
	ids := make([]types.ID, 0, len(pending))
	for _, rr := range pending {
		if rr.DriverID != keep {
			ids = append(ids, rr.DriverID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.gw.MarkDenied(ctx, rideID, ids); err != nil {
		return fmt.Errorf("mark denied: %w", err)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, e Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		observability.PublishFailuresTotal.Inc()
		s.log.Warn("publish event failed",
			zap.String("kind", string(e.Kind)), zap.String("ride_id", e.RideID.String()), zap.Error(err))
	}
}

func notFound(err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return reject(OutcomeNotFound, "ride not found"), nil
}

func wrongState(r *Ride) Result {
	return Result{Outcome: OutcomeWrongState, Ride: r, Reason: "ride is " + string(r.Status)}
}

// applyPatch returns a copy of r with p applied, as the gateway stores it.
func applyPatch(r *Ride, p Patch, now time.Time) *Ride {
	next := *r
	next.Status = p.Status
	next.StatusVersion++
	switch {
	case p.ClearAssignment:
		next.DriverID = nil
		next.AssignedVehicleID = nil
	case p.DriverID != nil:
		d := *p.DriverID
		next.DriverID = &d
		next.AssignedVehicleID = nil
		if p.VehicleID != nil {
			v := *p.VehicleID
			next.AssignedVehicleID = &v
		}
	}
	if p.CancelReason != nil {
		reason := *p.CancelReason
		next.CancelReason = &reason
	}
	next.UpdatedAt = now
	return &next
}
