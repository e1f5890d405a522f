package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/shot-analytics/internal/models"
)

const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *AppError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta tells clients when an answer came from reference data or when a write
// was stored but its hole aggregate is stale
type Meta struct {
	Degraded bool   `json:"degraded"`
	Count    int    `json:"count,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func SendSuccessWithMeta(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, Response{Success: true, Data: data, Meta: meta})
}

func SendError(c *gin.Context, statusCode int, code, message, details string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   &AppError{Code: code, Message: message, Details: details},
	})
}

func SendValidationError(c *gin.Context, message string, details string) {
	SendError(c, http.StatusBadRequest, ErrCodeValidation, message, details)
}

// SendDomainError maps service errors onto HTTP statuses
func SendDomainError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidShot), errors.Is(err, models.ErrInvalidRound):
		SendValidationError(c, message, err.Error())
	case errors.Is(err, models.ErrNotFound):
		SendError(c, http.StatusNotFound, ErrCodeNotFound, message, err.Error())
	case errors.Is(err, models.ErrUpstreamUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, message, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrCodeInternal, message, "")
	}
}
