package api

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/shot-analytics/internal/api/handlers"
	"github.com/stitts-dev/shot-analytics/internal/api/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Rounds    *handlers.RoundHandler
	Analytics *handlers.AnalyticsHandler
	Health    *handlers.HealthHandler
}

// NewRouter builds the gin engine with health checks at the root and the
// shot log and analytics under /api/v1
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	router.GET("/health", h.Health.GetHealth)
	router.GET("/ready", h.Health.GetReady)

	SetupRoutes(router.Group("/api/v1"), h)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, h Handlers) {
	// Rounds and the shot log
	group.POST("/rounds", h.Rounds.CreateRound)
	group.GET("/rounds/:id", h.Rounds.GetRound)
	group.POST("/rounds/:id/shots", h.Rounds.LogShot)
	group.GET("/rounds/:id/holes/:hole/shots", h.Rounds.GetHoleShots)
	group.PUT("/rounds/:id/holes/:hole/shots/:shot", h.Rounds.UpdateShot)
	group.DELETE("/rounds/:id/holes/:hole/shots/:shot", h.Rounds.DeleteShot)
	group.POST("/rounds/:id/holes/:hole/recompute", h.Rounds.RecomputeHole)

	// Historical analytics
	group.GET("/users/:id/analytics/clubs", h.Analytics.GetClubPerformance)
	group.GET("/users/:id/analytics/tendencies", h.Analytics.GetTendencies)
	group.GET("/users/:id/analytics/heatmap", h.Analytics.GetHeatMap)

	// Shot-time strategy
	group.POST("/analytics/suggestions", h.Analytics.SuggestClubs)
	group.POST("/analytics/pressure", h.Analytics.AnalyzePressure)
	group.POST("/analytics/decision", h.Analytics.DecideShot)
}
