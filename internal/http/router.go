// README: HTTP router registration.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ridehub/internal/http/handlers"
	"ridehub/internal/http/middleware"
	"ridehub/internal/infra"
	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/ride"
)

type RouterDeps struct {
	Rides    *ride.Service
	Vehicles handlers.VehicleStore
	Policy   *authz.Policy
	Verifier infra.TokenVerifier
	Claims   middleware.ClaimNames
	Logger   *zap.Logger
	// Ready backs /ready; nil reports ready.
	Ready func(ctx context.Context) error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	policy := deps.Policy
	if policy == nil {
		policy = authz.NewPolicy()
	}

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/ready", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
		}
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.Verifier, deps.Claims))

	rides := handlers.NewRideHandler(deps.Rides, policy)
	api.POST("/rides", rides.Create)
	api.GET("/rides/:id", rides.Get)
	api.GET("/rides/:id/requests", rides.ListRequests)
	api.POST("/rides/:id/requests", rides.Request)
	api.DELETE("/rides/:id/requests", rides.Withdraw)
	api.POST("/rides/:id/claim", rides.Claim)
	api.POST("/rides/:id/assign", rides.Assign)
	api.POST("/rides/:id/unassign", rides.Unassign)
	api.POST("/rides/:id/start", rides.Start)
	api.POST("/rides/:id/report", rides.Report)
	api.POST("/rides/:id/confirm", rides.Confirm)
	api.POST("/rides/:id/cancel", rides.Cancel)

	if deps.Vehicles != nil {
		vehicles := handlers.NewVehicleHandler(deps.Vehicles)
		api.GET("/vehicles", vehicles.List)
		api.POST("/vehicles", vehicles.Create)
		api.POST("/vehicles/:id/activate", vehicles.Activate)
	}

	return r
}
