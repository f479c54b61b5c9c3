// README: Seat check run before a claim is finalized. Pure, no I/O.
package ride

import (
	"fmt"

	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
)

type CapacityError struct {
	Required  int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("vehicle seats %d, ride needs %d", e.Available, e.Required)
}

type VehicleError struct {
	VehicleID types.ID
	Reason    string
}

func (e *VehicleError) Error() string {
	return fmt.Sprintf("vehicle %s: %s", e.VehicleID, e.Reason)
}

// RequiredSeats counts the riders plus the driver.
func RequiredSeats(r *Ride) int {
	return r.RiderCount + 1
}

// ValidateCapacity checks that v can carry r's riders when driven by driverID.
// A nil vehicle skips the check.
func ValidateCapacity(r *Ride, v *vehicle.Vehicle, driverID types.ID) error {
	if v == nil {
		return nil
	}
	if !v.Active {
		return &VehicleError{VehicleID: v.ID, Reason: "vehicle is not active"}
	}
	if v.OwnerDriverID != driverID {
		return &VehicleError{VehicleID: v.ID, Reason: "vehicle is not owned by driver"}
	}
	required, available := RequiredSeats(r), v.Seats()
	if available < required {
		return &CapacityError{Required: required, Available: available}
	}
	return nil
}
