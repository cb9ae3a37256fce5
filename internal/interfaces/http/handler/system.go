package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solarqc/coc-backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Pinger checks a backing store
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	logger    *zap.Logger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil.
func NewSystemHandler(name, version string, db Pinger, logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		logger:    logger,
		startTime: time.Now(),
	}
}

// HealthResponse is the liveness payload
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Name      string `json:"name" example:"coc-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// PingResponse is the readiness payload
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Database  string `json:"database" example:"ok"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping godoc
// @ID           pingSystem
// @Summary      Readiness probe
// @Description  Pings the database
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Failure      503 {object} ErrorResponse
// @Router       /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	resp := PingResponse{
		Message:   "pong",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("Database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "database unavailable", getRequestID(c)))
			return
		}
	}
	h.Success(c, resp)
}
