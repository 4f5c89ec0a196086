package http

import (
	"net/http"

	"face-animation/pkg/logger"

	"github.com/gin-gonic/gin"
)

// QueueInspector reports the number of tasks waiting to be rendered.
type QueueInspector interface {
	QueueLength() (int, error)
}

type StatsHandler struct {
	queue  QueueInspector
	logger *logger.Logger
}

func NewStatsHandler(queue QueueInspector, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{queue: queue, logger: logger}
}

// GetStats answers with the depth of the animation queue.
func (h *StatsHandler) GetStats(c *gin.Context) {
	pending, err := h.queue.QueueLength()
	if err != nil {
		h.logger.Error("Failed to inspect animation queue: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Queue unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pending_tasks": pending})
}
