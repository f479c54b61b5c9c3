// README: Ride command handlers: create, request, claim, assign, lifecycle and cancel.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehub/internal/http/middleware"
	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/ride"
	"ridehub/internal/types"
)

type RideHandler struct {
	rides  *ride.Service
	policy *authz.Policy
}

func NewRideHandler(rides *ride.Service, policy *authz.Policy) *RideHandler {
	return &RideHandler{rides: rides, policy: policy}
}

type createRideRequest struct {
	ClientID   string     `json:"client_id"`
	Pickup     ride.Place `json:"pickup"`
	Dropoff    ride.Place `json:"dropoff"`
	RiderCount int        `json:"rider_count"`
	PickupAt   *time.Time `json:"pickup_at"`
	Notes      string     `json:"notes"`
}

type claimRequest struct {
	VehicleID *types.ID `json:"vehicle_id"`
}

type assignRequest struct {
	DriverID  types.ID  `json:"driver_id"`
	VehicleID *types.ID `json:"vehicle_id"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func rideID(c *gin.Context) types.ID {
	return types.ID(c.Param("id"))
}

func (h *RideHandler) Create(c *gin.Context) {
	var req createRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	res, err := h.rides.CreateRide(c.Request.Context(), ride.CreateCommand{
		Actor:      middleware.CallerActor(c),
		ClientID:   types.ID(req.ClientID),
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		RiderCount: req.RiderCount,
		PickupAt:   req.PickupAt,
		Notes:      req.Notes,
	})
	writeResult(c, res, err, http.StatusCreated)
}

// Get hides rides of other organisations behind 404.
func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), rideID(c))
	if errors.Is(err, ride.ErrNotFound) {
		writeError(c, http.StatusNotFound, "ride not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if r.OrgID != middleware.CallerActor(c).OrgID {
		writeError(c, http.StatusNotFound, "ride not found")
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) ListRequests(c *gin.Context) {
	ctx := c.Request.Context()
	r, err := h.rides.Get(ctx, rideID(c))
	if errors.Is(err, ride.ErrNotFound) {
		writeError(c, http.StatusNotFound, "ride not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !h.policy.CanActOnRide(ctx, middleware.CallerActor(c), r) {
		writeError(c, http.StatusForbidden, "dispatch authority required")
		return
	}
	pending, err := h.rides.ListPendingRequests(ctx, r.ID)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if pending == nil {
		pending = []*ride.RideRequest{}
	}
	writeJSON(c, http.StatusOK, gin.H{"requests": pending})
}

func (h *RideHandler) Request(c *gin.Context) {
	res, err := h.rides.RequestClaim(c.Request.Context(), ride.RequestCommand{RideID: rideID(c), Actor: middleware.CallerActor(c)})
	writeResult(c, res, err, http.StatusCreated)
}

func (h *RideHandler) Withdraw(c *gin.Context) {
	res, err := h.rides.WithdrawRequest(c.Request.Context(), ride.RequestCommand{RideID: rideID(c), Actor: middleware.CallerActor(c)})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Claim(c *gin.Context) {
	var req claimRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := h.rides.ResolveClaim(c.Request.Context(), ride.ClaimCommand{
		RideID:    rideID(c),
		Actor:     middleware.CallerActor(c),
		VehicleID: req.VehicleID,
	})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	res, err := h.rides.ForceAssign(c.Request.Context(), ride.ForceAssignCommand{
		RideID:    rideID(c),
		Actor:     middleware.CallerActor(c),
		DriverID:  req.DriverID,
		VehicleID: req.VehicleID,
	})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Unassign(c *gin.Context) {
	res, err := h.rides.Unassign(c.Request.Context(), ride.UnassignCommand{RideID: rideID(c), Actor: middleware.CallerActor(c)})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Start(c *gin.Context) {
	res, err := h.rides.StartTrip(c.Request.Context(), ride.TransitionCommand{RideID: rideID(c), Actor: middleware.CallerActor(c)})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Report(c *gin.Context) {
	var payload ride.CompletionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	res, err := h.rides.ReportCompletion(c.Request.Context(), ride.ReportCommand{
		RideID:  rideID(c),
		Actor:   middleware.CallerActor(c),
		Payload: &payload,
	})
	writeResult(c, res, err, 0)
}

// Confirm takes an optional corrected completion payload as its body.
func (h *RideHandler) Confirm(c *gin.Context) {
	var payload *ride.CompletionPayload
	if c.Request.ContentLength != 0 {
		payload = &ride.CompletionPayload{}
		if err := c.ShouldBindJSON(payload); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json body")
			return
		}
	}
	res, err := h.rides.ConfirmCompletion(c.Request.Context(), ride.ConfirmCommand{
		RideID:  rideID(c),
		Actor:   middleware.CallerActor(c),
		Payload: payload,
	})
	writeResult(c, res, err, 0)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := h.rides.Cancel(c.Request.Context(), ride.TransitionCommand{
		RideID: rideID(c),
		Actor:  middleware.CallerActor(c),
		Reason: req.Reason,
	})
	writeResult(c, res, err, 0)
}

// bindOptionalJSON decodes the body when there is one.
func bindOptionalJSON(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}
