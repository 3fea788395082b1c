package handlers

import (
	"net/http"

	serviceInterfaces "lecture-manager/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the read-only reports
type StatsHandler struct {
	statsService serviceInterfaces.StatsService
}

func NewStatsHandler(statsService serviceInterfaces.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// SessionStats handles GET /api/v1/queries/session-stats
func (h *StatsHandler) SessionStats(c *gin.Context) {
	stats, err := h.statsService.SessionStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: stats})
}

// FullSessions handles GET /api/v1/queries/full-sessions
func (h *StatsHandler) FullSessions(c *gin.Context) {
	sessions, err := h.statsService.FullSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: sessions})
}

// StudentStats handles GET /api/v1/queries/student-stats
func (h *StatsHandler) StudentStats(c *gin.Context) {
	stats, err := h.statsService.StudentStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: stats})
}
