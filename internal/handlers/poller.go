package handlers

import (
	"errors"
	"net/http"
	"time"

	"sensor_dashboard/internal/service"
	"sensor_dashboard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// pollerSettingsRequest changes the cadence. Omitted or zero fields keep the current value.
type pollerSettingsRequest struct {
	FastIntervalMs int64 `json:"fast_interval_ms" example:"20000"`
	SlowIntervalMs int64 `json:"slow_interval_ms" example:"60000"`
}

// @Summary      Start acquisition
// @Description  Starts both triggers and fires one pass immediately. Starting a running poller restarts it.
// @Tags         poller
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, settings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/poller/start [post]
// @Security     BearerAuth
func (h *Handler) startPoller(c *gin.Context) {
	if err := h.services.Poller.Start(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to start poller", "poller_start_failed", err)
		return
	}
	h.respondWithSettings(c, statusStarted)
}

// @Summary      Stop acquisition
// @Tags         poller
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, settings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/poller/stop [post]
// @Security     BearerAuth
func (h *Handler) stopPoller(c *gin.Context) {
	if err := h.services.Poller.Stop(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to stop poller", "poller_stop_failed", err)
		return
	}
	h.respondWithSettings(c, statusStopped)
}

// @Summary      Refresh now
// @Description  Runs one resolution pass and returns the winning source. 409 while a pass is already in flight.
// @Tags         poller
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "source, reading, failures"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}  "error, failures"
// @Router       /api/v1/poller/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshNow(c *gin.Context) {
	res, err := h.services.Poller.Refresh(c.Request.Context())
	if err != nil {
		var allFailed *telemetry.AllSourcesFailedError
		switch {
		case errors.Is(err, service.ErrPassInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &allFailed):
			if h.log != nil {
				h.log.Warnw("refresh_all_sources_failed", "failures", len(allFailed.Failures))
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "all sources failed", "failures": allFailed.Failures})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "refresh failed", "poller_refresh_failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":   res.Descriptor,
		"reading":  res.Reading,
		"failures": res.Failures,
	})
}

// @Summary      Poller settings
// @Tags         poller
// @Produce      json
// @Success      200  {object}  models.PollerSettings
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/poller/settings [get]
// @Security     BearerAuth
func (h *Handler) getPollerSettings(c *gin.Context) {
	st, err := h.services.Poller.Settings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "poller_settings_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Change cadence
// @Description  Both intervals must be at least 1000 ms. A running poller restarts with the new cadence.
// @Tags         poller
// @Accept       json
// @Produce      json
// @Param        body  body      pollerSettingsRequest  true  "Cadence"
// @Success      200   {object}  models.PollerSettings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/poller/settings [put]
// @Security     BearerAuth
func (h *Handler) updatePollerSettings(c *gin.Context) {
	var input pollerSettingsRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if input.FastIntervalMs < 0 || input.SlowIntervalMs < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidInterval.Error()})
		return
	}

	err := h.services.Poller.Reconfigure(c.Request.Context(), service.PollerParams{
		FastInterval: time.Duration(input.FastIntervalMs) * time.Millisecond,
		SlowInterval: time.Duration(input.SlowIntervalMs) * time.Millisecond,
	})
	if err != nil {
		var cerr *telemetry.ConfigError
		if errors.Is(err, service.ErrInvalidInterval) || errors.As(err, &cerr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to update settings", "poller_reconfigure_failed", err,
			"fast_interval_ms", input.FastIntervalMs, "slow_interval_ms", input.SlowIntervalMs)
		return
	}
	h.getPollerSettings(c)
}

// @Summary      Probe endpoints
// @Description  Tries every catalog entry once and reports each outcome. Does not change status or history.
// @Tags         poller
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "results"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/poller/probe [get]
// @Security     BearerAuth
func (h *Handler) probeEndpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.services.Poller.Probe(c.Request.Context())})
}

func (h *Handler) respondWithSettings(c *gin.Context, status string) {
	st, err := h.services.Poller.Settings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "poller_settings_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "settings": st})
}
