package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DatabasePinger reports database connectivity
type DatabasePinger interface {
	Ping() error
}

// HealthHandler serves liveness and readiness information
type HealthHandler struct {
	BaseHandler
	db      DatabasePinger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db DatabasePinger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		started: time.Now(),
	}
}

// RegisterRoutes registers health routes on the engine root
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// Health reports service and database health
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	})
}
