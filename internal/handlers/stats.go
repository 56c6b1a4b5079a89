package handlers

import (
	"net/http"
	"time"

	"github.com/aidosorynbay/powerbook/internal/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// PublicStats godoc
// @Summary      Aggregate public counters for the homepage
// @Description  No authentication required; cached for 30 seconds.
// @Tags         stats
// @Produce      json
// @Success      200 {object} services.PublicStats
// @Router       /api/v1/stats/public [get]
func (h *StatsHandler) PublicStats(c *gin.Context) {
	out, err := h.statsService.PublicStats(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
