// README: Driver vehicle handlers: list, register, activate.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ridehub/internal/http/middleware"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
)

// VehicleStore is satisfied by vehicle.Store and vehicle.MemStore.
type VehicleStore interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
	ListByOwner(ctx context.Context, driverID types.ID) ([]*vehicle.Vehicle, error)
	Activate(ctx context.Context, driverID, id types.ID) error
}

type VehicleHandler struct {
	store VehicleStore
}

func NewVehicleHandler(store VehicleStore) *VehicleHandler {
	return &VehicleHandler{store: store}
}

type createVehicleRequest struct {
	Label          string `json:"label"`
	NonDriverSeats int    `json:"non_driver_seats"`
}

func (h *VehicleHandler) List(c *gin.Context) {
	actor := middleware.CallerActor(c)
	if !actor.IsDriver() {
		writeError(c, http.StatusForbidden, "driver role required")
		return
	}
	list, err := h.store.ListByOwner(c.Request.Context(), actor.ID)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []*vehicle.Vehicle{}
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": list})
}

// Create registers an inactive vehicle; drivers activate it explicitly.
func (h *VehicleHandler) Create(c *gin.Context) {
	actor := middleware.CallerActor(c)
	if !actor.IsDriver() {
		writeError(c, http.StatusForbidden, "driver role required")
		return
	}
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.NonDriverSeats < 0 {
		writeError(c, http.StatusBadRequest, "non_driver_seats must not be negative")
		return
	}
	v := &vehicle.Vehicle{
		ID:             types.NewID(),
		OwnerDriverID:  actor.ID,
		Label:          strings.TrimSpace(req.Label),
		NonDriverSeats: req.NonDriverSeats,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.store.Create(c.Request.Context(), v); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusCreated, v)
}

func (h *VehicleHandler) Activate(c *gin.Context) {
	actor := middleware.CallerActor(c)
	if !actor.IsDriver() {
		writeError(c, http.StatusForbidden, "driver role required")
		return
	}
	ctx := c.Request.Context()
	id := types.ID(c.Param("id"))
	err := h.store.Activate(ctx, actor.ID, id)
	if errors.Is(err, vehicle.ErrNotFound) {
		writeError(c, http.StatusNotFound, "vehicle not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	v, err := h.store.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, v)
}
