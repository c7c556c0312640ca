package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"

	errInvalidBodyPref = "invalid body: "
)

// @Summary      Latest reading
// @Description  Most recent normalized reading and the connection status. reading is null until the first successful pass.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "reading, status"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/telemetry/current [get]
// @Security     BearerAuth
func (h *Handler) getCurrent(c *gin.Context) {
	resp := gin.H{"reading": nil, "status": h.services.Telemetry.Status()}
	if r, ok := h.services.Telemetry.Current(); ok {
		resp["reading"] = r
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Recent readings
// @Description  Rolling window of the last readings, oldest first.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/telemetry/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	readings := h.services.Telemetry.History()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Connection status
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  models.ConnectionStatus
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/telemetry/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Telemetry.Status())
}

// @Summary      Latest analytics
// @Description  Last trends, data-quality and summary payloads, passed through as received.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  service.AnalyticsSnapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/telemetry/analytics [get]
// @Security     BearerAuth
func (h *Handler) getAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Telemetry.Analytics())
}
