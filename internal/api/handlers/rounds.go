package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/shot-analytics/internal/models"
	"github.com/stitts-dev/shot-analytics/internal/services"
	"github.com/stitts-dev/shot-analytics/pkg/logger"
)

// RoundHandler exposes the shot log and the derived scorecard
type RoundHandler struct {
	shots *services.ShotService
	log   *logrus.Logger
}

func NewRoundHandler(shots *services.ShotService, log *logrus.Logger) *RoundHandler {
	return &RoundHandler{shots: shots, log: log}
}

type createRoundRequest struct {
	UserID   string    `json:"user_id" binding:"required"`
	CourseID string    `json:"course_id"`
	PlayedAt time.Time `json:"played_at"`
}

// CreateRound starts a new round
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendValidationError(c, "Invalid round", err.Error())
		return
	}
	if req.PlayedAt.IsZero() {
		req.PlayedAt = time.Now().UTC()
	}

	round := &models.Round{UserID: req.UserID, CourseID: req.CourseID, PlayedAt: req.PlayedAt}
	if err := h.shots.StartRound(c.Request.Context(), round); err != nil {
		SendDomainError(c, "Failed to create round", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: round})
}

// GetRound returns the round with its hole aggregates
func (h *RoundHandler) GetRound(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	round, err := h.shots.GetScorecard(c.Request.Context(), roundID)
	if err != nil {
		SendDomainError(c, "Failed to load round", err)
		return
	}
	SendSuccess(c, round)
}

func (h *RoundHandler) GetHoleShots(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	hole, ok := intParam(c, "hole")
	if !ok {
		return
	}
	shots, err := h.shots.HoleShots(c.Request.Context(), roundID, hole)
	if err != nil {
		SendDomainError(c, "Failed to load shots", err)
		return
	}
	SendSuccessWithMeta(c, http.StatusOK, shots, &Meta{Count: len(shots)})
}

// LogShot appends the next shot of a hole from a parsed intent. When the shot
// is stored but the recompute fails the shot is still returned with a warning.
func (h *RoundHandler) LogShot(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	var intent models.ShotIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		SendValidationError(c, "Invalid shot", err.Error())
		return
	}
	intent.RoundID = roundID

	shot, err := h.shots.LogShot(c.Request.Context(), intent)
	if err != nil && shot == nil {
		SendDomainError(c, "Failed to log shot", err)
		return
	}

	meta := &Meta{}
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"round_id":    roundID,
			"hole_number": shot.HoleNumber,
			"shot_number": shot.ShotNumber,
		}).Warn("Shot stored with stale hole aggregate")
		meta.Warning = "hole aggregate is stale until the next recompute"
	}
	SendSuccessWithMeta(c, http.StatusCreated, shot, meta)
}

// UpdateShot rewrites the shot at the path key
func (h *RoundHandler) UpdateShot(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	hole, ok := intParam(c, "hole")
	if !ok {
		return
	}
	number, ok := intParam(c, "shot")
	if !ok {
		return
	}

	var intent models.ShotIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		SendValidationError(c, "Invalid shot", err.Error())
		return
	}
	intent.RoundID = roundID
	intent.HoleNumber = hole

	shot, err := intent.ToShot()
	if err != nil {
		SendDomainError(c, "Invalid shot", err)
		return
	}
	shot.ShotNumber = number

	if err := h.shots.UpdateShot(c.Request.Context(), &shot); err != nil {
		SendDomainError(c, "Failed to update shot", err)
		return
	}
	SendSuccess(c, shot)
}

func (h *RoundHandler) DeleteShot(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	hole, ok := intParam(c, "hole")
	if !ok {
		return
	}
	number, ok := intParam(c, "shot")
	if !ok {
		return
	}

	if err := h.shots.DeleteShot(c.Request.Context(), roundID, hole, number); err != nil {
		SendDomainError(c, "Failed to delete shot", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecomputeHole forces a rebuild of one hole aggregate
func (h *RoundHandler) RecomputeHole(c *gin.Context) {
	roundID, ok := roundParam(c)
	if !ok {
		return
	}
	hole, ok := intParam(c, "hole")
	if !ok {
		return
	}

	if err := h.shots.RecomputeHole(c.Request.Context(), roundID, hole); err != nil {
		logger.WithRoundContext(roundID.String(), hole).WithError(err).Error("Manual recompute failed")
		SendDomainError(c, "Failed to recompute hole", err)
		return
	}
	SendSuccess(c, gin.H{"round_id": roundID, "hole_number": hole})
}

func roundParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		SendValidationError(c, "Invalid round ID", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		SendValidationError(c, "Invalid "+name+" number", err.Error())
		return 0, false
	}
	return v, true
}
