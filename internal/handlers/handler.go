package handlers

import (
	"net/http"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

// NewHandler constructs a new HTTP handler with dependencies.
// metrics may be nil, in which case /metrics is not served.
func NewHandler(services *service.Service, log *logger.Logger, metrics http.Handler) *Handler {
	return &Handler{services: services, log: log, metrics: metrics}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)
	h.registerSimulationRoutes(router)

	// browsers cannot set headers on the upgrade request, so ?token= is accepted too
	router.GET("/ws", h.wsAuthMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerTelemetryRoutes(api)
		h.registerPollerRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerTelemetryRoutes(api *gin.RouterGroup) {
	tel := api.Group("/telemetry")
	{
		tel.GET("/current", h.getCurrent)
		tel.GET("/history", h.getHistory)
		tel.GET("/status", h.getStatus)
		tel.GET("/analytics", h.getAnalytics)
	}
}

func (h *Handler) registerPollerRoutes(api *gin.RouterGroup) {
	poller := api.Group("/poller")
	{
		poller.POST("/start", h.startPoller)
		poller.POST("/stop", h.stopPoller)
		poller.POST("/refresh", h.refreshNow)
		poller.GET("/settings", h.getPollerSettings)
		// Body example: {"fast_interval_ms":20000,"slow_interval_ms":60000}
		poller.PUT("/settings", h.updatePollerSettings)
		poller.GET("/probe", h.probeEndpoints)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// registerSimulationRoutes serves the synthetic sensor only when simulation is on.
func (h *Handler) registerSimulationRoutes(r *gin.Engine) {
	if h.services.Simulator == nil {
		return
	}
	r.GET("/sim/thingspeak", h.getSimulatedSample)
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
