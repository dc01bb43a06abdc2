package dashboard

import (
	"net/http"

	"call-assistant/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the Store's query surface as JSON. Keep these thin:
// call the service, return JSON, log failures.
type Handlers struct {
	Service *Service
}

func (h Handlers) Logs(c *gin.Context) {
	logs, err := h.Service.Logs(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("list call logs failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch call logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h Handlers) Active(c *gin.Context) {
	active, err := h.Service.Active(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("fetch active call failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch active call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_call": active})
}

func (h Handlers) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("compute call stats failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
