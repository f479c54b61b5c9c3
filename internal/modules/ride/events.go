// README: Outbound events emitted after a committed transition.
package ride

import (
	"time"

	"ridehub/internal/types"
)

type EventKind string

const (
	EventRequested  EventKind = "ride.requested"
	EventAssigned   EventKind = "ride.assigned"
	EventUnassigned EventKind = "ride.unassigned"
	EventStarted    EventKind = "ride.started"
	EventReported   EventKind = "ride.reported"
	EventCompleted  EventKind = "ride.completed"
	EventCancelled  EventKind = "ride.cancelled"
)

type Event struct {
	ID         types.ID  `json:"event_id"`
	Kind       EventKind `json:"kind"`
	RideID     types.ID  `json:"ride_id"`
	OrgID      types.ID  `json:"org_id"`
	DriverID   *types.ID `json:"driver_id,omitempty"`
	VehicleID  *types.ID `json:"vehicle_id,omitempty"`
	ActorID    types.ID  `json:"actor_id"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	Forced     bool      `json:"forced,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEvent(kind EventKind, r *Ride, actorID types.ID, from Status, at time.Time) Event {
	return Event{
		ID:         types.NewID(),
		Kind:       kind,
		RideID:     r.ID,
		OrgID:      r.OrgID,
		DriverID:   r.DriverID,
		VehicleID:  r.AssignedVehicleID,
		ActorID:    actorID,
		From:       from,
		To:         r.Status,
		OccurredAt: at,
	}
}
