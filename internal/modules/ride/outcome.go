// README: Command results; every engine operation ends in exactly one Outcome.
package ride

import "ridehub/internal/types"

type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeAssigned         Outcome = "assigned"
	OutcomeAlreadyClaimed   Outcome = "already_claimed"
	OutcomeRideNotClaimable Outcome = "ride_not_claimable"
	OutcomeCapacityRejected Outcome = "capacity_rejected"
	OutcomeInvalidVehicle   Outcome = "invalid_vehicle"
	OutcomeNotRequested     Outcome = "not_requested"
	OutcomeAlreadyRequested Outcome = "already_requested"
	OutcomeRideNotOpen      Outcome = "ride_not_open"
	OutcomeNotAssigned      Outcome = "not_assigned"
	OutcomeWrongState       Outcome = "wrong_state"
	OutcomeForbidden        Outcome = "forbidden"
	OutcomeInvalidSpec      Outcome = "invalid_spec"
	OutcomeNotFound         Outcome = "not_found"
)

// Result is returned alongside a nil error for every domain outcome.
// A non-nil error from an operation means a persistence fault and Result is zero.
type Result struct {
	Outcome   Outcome   `json:"outcome"`
	Ride      *Ride     `json:"ride,omitempty"`
	VehicleID *types.ID `json:"vehicle_id,omitempty"`
	Required  int       `json:"required_seats,omitempty"`
	Available int       `json:"available_seats,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeOK || r.Outcome == OutcomeAssigned
}

func ok(r *Ride) Result {
	return Result{Outcome: OutcomeOK, Ride: r}
}

func reject(o Outcome, reason string) Result {
	return Result{Outcome: o, Reason: reason}
}
