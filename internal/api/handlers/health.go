package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type HealthChecker interface {
	HealthCheck() error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type BreakerStates interface {
	States() map[string]string
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db       HealthChecker
	cache    Pinger
	breakers BreakerStates
	started  time.Time
	logger   *logrus.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// service runs without Redis.
func NewHealthHandler(db HealthChecker, cache Pinger, breakers BreakerStates, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		cache:    cache,
		breakers: breakers,
		started:  time.Now(),
		logger:   logger,
	}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "shot-analytics",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// GetReady reports readiness. Redis and the upstream breakers are reported but
// never fail readiness since analytics degrade without them.
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   "shot-analytics",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.HealthCheck(); err != nil {
		response.Status = "not_ready"
		response.Checks["database"] = "failed: " + err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	switch {
	case h.cache == nil:
		response.Checks["redis"] = "disabled"
	default:
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			h.logger.WithError(err).Warn("Redis ping failed")
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	}

	if h.breakers != nil {
		for name, state := range h.breakers.States() {
			response.Checks["breaker_"+name] = state
		}
	}
	response.Checks["uptime"] = time.Since(h.started).Round(time.Second).String()

	statusCode := http.StatusOK
	if response.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
