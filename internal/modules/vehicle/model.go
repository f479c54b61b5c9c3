// README: Driver-owned vehicle; the ride engine reads it for seat capacity.
package vehicle

import (
	"errors"
	"time"

	"ridehub/internal/types"
)

var ErrNotFound = errors.New("vehicle not found")

type Vehicle struct {
	ID             types.ID  `json:"vehicle_id"`
	OwnerDriverID  types.ID  `json:"owner_driver_id"`
	Label          string    `json:"label"`
	Active         bool      `json:"active"`
	NonDriverSeats int       `json:"non_driver_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// Seats counts the driver's own seat.
func (v *Vehicle) Seats() int {
	return v.NonDriverSeats + 1
}
