package api

import (
	stdhttp "net/http"

	intconfig "fleetdesk/internal/config"
	h "fleetdesk/internal/http/handlers"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hs h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "http", "trusted_proxies", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/db-check", h.DBCheck)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth([]byte(env.JWTSecret)), middleware.RequireRoles("driver", "admin"))
	{
		trips := authed.Group("/trips")
		trips.GET("/:id", hs.GetTrip)
		trips.POST("/:id/start", hs.StartTrip)
		trips.POST("/:id/complete", hs.CompleteTrip)
		trips.POST("/:id/delay", hs.DelayTrip)
		trips.GET("/:id/inspection", hs.InspectionStatus)
		trips.POST("/:id/cancel", middleware.RequireRoles("admin"), hs.CancelTrip)

		authed.POST("/commands", hs.PostCommand)
		authed.GET("/input/adapters", hs.AdapterStatus)
		authed.PUT("/input/adapters/:source", hs.ReportAdapter)
		authed.POST("/incidents", hs.ReportIncident)
		authed.POST("/inspections", hs.RecordInspection)

		drivers := authed.Group("/drivers")
		drivers.GET("/:id/trips", hs.DriverTrips)
		drivers.GET("/:id/fitness", hs.DriverFitness)

		fleet := authed.Group("/fleet", middleware.RequireRoles("admin"))
		fleet.GET("/fitness", hs.FleetFitness)
	}

	return r
}
