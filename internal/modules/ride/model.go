// README: Ride aggregate, ride requests, completion records and the status machine.
package ride

import (
	"errors"
	"strings"
	"time"

	"ridehub/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusRequested  Status = "requested"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusReported   Status = "reported"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

func (p Place) Blank() bool {
	return strings.TrimSpace(p.Address) == ""
}

type Ride struct {
	ID                types.ID   `json:"ride_id"`
	OrgID             types.ID   `json:"org_id"`
	ClientID          types.ID   `json:"client_id"`
	DispatcherID      types.ID   `json:"dispatcher_id"`
	DriverID          *types.ID  `json:"driver_id"`
	AssignedVehicleID *types.ID  `json:"assigned_vehicle_id"`
	Pickup            Place      `json:"pickup"`
	Dropoff           Place      `json:"dropoff"`
	RiderCount        int        `json:"rider_count"`
	PickupAt          *time.Time `json:"pickup_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	EstimatedMiles    *float64   `json:"estimated_miles,omitempty"`
	Status            Status     `json:"status"`
	StatusVersion     int        `json:"status_version"`
	CancelReason      *string    `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *Ride) Org() types.ID {
	return r.OrgID
}

func (r *Ride) AssignedTo(driverID types.ID) bool {
	return types.Equal(r.DriverID, driverID)
}

// RideRequest is a driver's standing offer to take an unclaimed ride.
// Denied covers withdrawn, lost and voided requests alike.
type RideRequest struct {
	RideID    types.ID  `json:"ride_id"`
	DriverID  types.ID  `json:"driver_id"`
	OrgID     types.ID  `json:"org_id"`
	Denied    bool      `json:"denied"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompletionRecord struct {
	RideID         types.ID    `json:"ride_id"`
	ActualStart    time.Time   `json:"actual_start"`
	ActualEnd      time.Time   `json:"actual_end"`
	MilesDriven    float64     `json:"miles_driven"`
	Hours          float64     `json:"hours"`
	DonationAmount types.Money `json:"donation_amount"`
	ReportedBy     types.ID    `json:"reported_by"`
	ConfirmedBy    *types.ID   `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time  `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CompletionPayload is what a driver files after driving a ride.
type CompletionPayload struct {
	ActualStart    time.Time   `json:"actual_start"`
	ActualEnd      time.Time   `json:"actual_end"`
	MilesDriven    float64     `json:"miles_driven"`
	Hours          float64     `json:"hours"`
	DonationAmount types.Money `json:"donation_amount"`
}

// Validate checks the payload and fills Hours from the trip window when it
// was left at zero.
func (p *CompletionPayload) Validate() error {
	if p == nil {
		return errors.New("completion payload required")
	}
	if p.ActualStart.IsZero() || p.ActualEnd.IsZero() {
		return errors.New("actual start and end are required")
	}
	if p.ActualEnd.Before(p.ActualStart) {
		return errors.New("actual end is before actual start")
	}
	if p.MilesDriven < 0 {
		return errors.New("miles driven must not be negative")
	}
	if p.Hours < 0 {
		return errors.New("hours must not be negative")
	}
	if p.DonationAmount.Negative() {
		return errors.New("donation amount must not be negative")
	}
	if p.Hours == 0 {
		p.Hours = roundHours(p.ActualEnd.Sub(p.ActualStart))
	}
	return nil
}

func roundHours(d time.Duration) float64 {
	return float64(d.Round(36*time.Second)) / float64(time.Hour)
}

// Patch is the change applied by Gateway.UpdateRideIfStatus.
//
// ClearAssignment nulls the driver and vehicle. Otherwise a non-nil DriverID
// sets the driver and replaces the vehicle with VehicleID (nil included).
// IfDriver adds a predicate: the row must currently be assigned to that driver.
// At becomes updated_at; gateways stamp their own clock when it is zero.
type Patch struct {
	Status          Status
	DriverID        *types.ID
	VehicleID       *types.ID
	ClearAssignment bool
	CancelReason    *string
	IfDriver        *types.ID
	At              time.Time
}

// AllowedTransitions represents the ride state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:  {StatusScheduled, StatusCancelled},
	StatusScheduled:  {StatusRequested, StatusInProgress, StatusReported, StatusCancelled},
	StatusInProgress: {StatusReported},
	StatusReported:   {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
