package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/internal/repository"
	"github.com/prohmpiriya/concert-events-dashboard/internal/upstream"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/response"
)

const readinessTimeout = 3 * time.Second

// sessionCounter is implemented by stores that can count live sessions cheaply
type sessionCounter interface {
	Len() int
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	service  string
	upstream upstream.Client
	sessions repository.SessionRepository
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(service string, client upstream.Client, sessions repository.SessionRepository) *HealthHandler {
	return &HealthHandler{service: service, upstream: client, sessions: sessions}
}

// Health returns basic health status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ok",
		"service": h.service,
	})
}

// Ready checks the session store and that upstream answers at all
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	data := gin.H{
		"service":       h.service,
		"session_store": h.sessions.Name(),
		"upstream":      h.upstream.Name(),
	}

	if err := h.sessions.Ping(ctx); err != nil {
		data["status"] = "not_ready"
		data["session_store_error"] = err.Error()
		response.FailWithData(c, response.CodeUnavailable, "session store unavailable", data)
		return
	}
	if counter, ok := h.sessions.(sessionCounter); ok {
		data["active_sessions"] = counter.Len()
	}

	// any HTTP reply counts as reachable
	if _, err := h.upstream.ListEvents(ctx, 0, 1); err != nil {
		data["status"] = "not_ready"
		data["upstream_error"] = err.Error()
		response.FailWithData(c, response.CodeUnavailable, "upstream unreachable", data)
		return
	}

	data["status"] = "ready"
	response.OK(c, data)
}
