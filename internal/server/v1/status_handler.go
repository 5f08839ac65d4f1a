package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/chat-relay/pkg/api"
)

const serviceName = "Customer Support Chatbot"

type StatusHandler struct {
	provider  string
	startTime time.Time
}

func NewStatusHandler(provider string) *StatusHandler {
	return &StatusHandler{
		provider:  provider,
		startTime: time.Now(),
	}
}

// Root reports that the service is up. The body never depends on configuration.
//
// GET /
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.StatusResponse{Status: "Online", Service: serviceName})
}

// Health returns the health status and uptime of the API.
//
// GET /health
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"provider": h.provider,
		"uptime":   time.Since(h.startTime).String(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
