// README: Base handler utilities (JSON helpers, outcome-to-status mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehub/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

var outcomeStatus = map[ride.Outcome]int{
	ride.OutcomeOK:               http.StatusOK,
	ride.OutcomeAssigned:         http.StatusOK,
	ride.OutcomeNotFound:         http.StatusNotFound,
	ride.OutcomeForbidden:        http.StatusForbidden,
	ride.OutcomeInvalidSpec:      http.StatusBadRequest,
	ride.OutcomeInvalidVehicle:   http.StatusUnprocessableEntity,
	ride.OutcomeCapacityRejected: http.StatusUnprocessableEntity,
	ride.OutcomeAlreadyClaimed:   http.StatusConflict,
	ride.OutcomeRideNotClaimable: http.StatusConflict,
	ride.OutcomeAlreadyRequested: http.StatusConflict,
	ride.OutcomeRideNotOpen:      http.StatusConflict,
	ride.OutcomeNotAssigned:      http.StatusConflict,
	ride.OutcomeWrongState:       http.StatusConflict,
	ride.OutcomeNotRequested:     http.StatusConflict,
}

// writeResult maps an engine result onto the response. okStatus replaces 200
// for successful outcomes.
func writeResult(c *gin.Context, res ride.Result, err error, okStatus int) {
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	status, known := outcomeStatus[res.Outcome]
	if !known {
		status = http.StatusInternalServerError
	}
	if res.Succeeded() && okStatus != 0 {
		status = okStatus
	}
	writeJSON(c, status, res)
}
