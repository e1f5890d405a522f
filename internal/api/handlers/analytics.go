package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/services"
	"github.com/stitts-dev/shot-analytics/internal/strategy"
	"github.com/stitts-dev/shot-analytics/pkg/logger"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	log       *logrus.Logger
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, log *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

func (h *AnalyticsHandler) GetClubPerformance(c *gin.Context) {
	report, err := h.analytics.GetClubPerformance(c.Request.Context(), c.Param("id"))
	if err != nil {
		SendDomainError(c, "Failed to compute club performance", err)
		return
	}
	sendReport(c, report.Items, report.Degraded)
}

func (h *AnalyticsHandler) GetTendencies(c *gin.Context) {
	report, err := h.analytics.GetTendencies(c.Request.Context(), c.Param("id"))
	if err != nil {
		SendDomainError(c, "Failed to detect tendencies", err)
		return
	}
	sendReport(c, report.Items, report.Degraded)
}

func (h *AnalyticsHandler) GetHeatMap(c *gin.Context) {
	report, err := h.analytics.GetHeatMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		SendDomainError(c, "Failed to build heat map", err)
		return
	}
	sendReport(c, report.Items, report.Degraded)
}

func (h *AnalyticsHandler) SuggestClubs(c *gin.Context) {
	shot, ok := bindShotContext(c)
	if !ok {
		return
	}
	report := h.analytics.GetClubSuggestions(c.Request.Context(), shot)
	sendReport(c, report.Items, report.Degraded)
}

func (h *AnalyticsHandler) AnalyzePressure(c *gin.Context) {
	shot, ok := bindShotContext(c)
	if !ok {
		return
	}
	analysis := h.analytics.GetPressureAnalysis(c.Request.Context(), shot)
	if analysis.Situation.Intensity.IsHigh() {
		h.log.WithFields(logrus.Fields{
			"user_id":     shot.UserID,
			"hole_number": shot.HoleNumber,
			"type":        analysis.Situation.Type,
		}).Debug("High pressure situation")
	}
	SendSuccessWithMeta(c, http.StatusOK, analysis, &Meta{Degraded: analysis.Degraded})
}

func (h *AnalyticsHandler) DecideShot(c *gin.Context) {
	shot, ok := bindShotContext(c)
	if !ok {
		return
	}
	decision := h.analytics.GetShotDecision(c.Request.Context(), shot)
	logger.WithUserContext(shot.UserID).WithFields(logrus.Fields{
		"strategy": decision.Strategy,
		"degraded": decision.Degraded,
	}).Debug("Shot decision computed")
	SendSuccessWithMeta(c, http.StatusOK, decision, &Meta{Degraded: decision.Degraded})
}

func sendReport[T any](c *gin.Context, items []T, degraded bool) {
	if items == nil {
		items = []T{}
	}
	SendSuccessWithMeta(c, http.StatusOK, items, &Meta{Degraded: degraded, Count: len(items)})
}

// shotContextRequest carries free-form category, lie and wind values that are
// normalized before they reach the engines
type shotContextRequest struct {
	UserID        string   `json:"user_id" binding:"required"`
	HoleNumber    int      `json:"hole_number"`
	Par           int      `json:"par"`
	ShotNumber    int      `json:"shot_number"`
	Category      string   `json:"category"`
	Lie           string   `json:"lie"`
	DistanceToPin float64  `json:"distance_to_pin" binding:"gte=0"`
	HazardPresent bool     `json:"hazard_present"`
	WindSpeed     float64  `json:"wind_speed"`
	WindDirection string   `json:"wind_direction"`
	CurrentScore  int      `json:"current_score"`
	HolesPlayed   int      `json:"holes_played"`
	ScoreToPar    int      `json:"score_to_par"`
	RecentResults []string `json:"recent_results"`
}

func bindShotContext(c *gin.Context) (strategy.ShotContext, bool) {
	var req shotContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendValidationError(c, "Invalid shot context", err.Error())
		return strategy.ShotContext{}, false
	}

	shot := strategy.ShotContext{
		UserID:        req.UserID,
		HoleNumber:    req.HoleNumber,
		Par:           req.Par,
		ShotNumber:    req.ShotNumber,
		Lie:           models.ParseLie(req.Lie),
		DistanceToPin: req.DistanceToPin,
		HazardPresent: req.HazardPresent,
		CurrentScore:  req.CurrentScore,
		HolesPlayed:   req.HolesPlayed,
		ScoreToPar:    req.ScoreToPar,
	}

	if req.Category != "" {
		category, err := models.ParseShotCategory(req.Category)
		if err != nil {
			SendValidationError(c, "Invalid shot category", err.Error())
			return strategy.ShotContext{}, false
		}
		shot.Category = category
	}

	if req.WindSpeed > 0 || req.WindDirection != "" {
		direction, err := strategy.ParseWindDirection(req.WindDirection)
		if err != nil {
			SendValidationError(c, "Invalid wind direction", err.Error())
			return strategy.ShotContext{}, false
		}
		shot.Wind = &strategy.Wind{Speed: req.WindSpeed, Direction: direction}
	}

	for _, r := range req.RecentResults {
		shot.RecentResults = append(shot.RecentResults, models.ResultZone(r))
	}
	return shot, true
}
