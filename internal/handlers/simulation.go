package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Simulated sensor
// @Description  Synthetic reading in the single-reading shape, flagged with "simulated": true. Only served when simulation is enabled.
// @Tags         simulation
// @Produce      json
// @Success      200  {object}  service.SimulatedSample
// @Router       /sim/thingspeak [get]
func (h *Handler) getSimulatedSample(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Simulator.Sample())
}
