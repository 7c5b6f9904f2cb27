package handlers

import (
	"brew_control/internal/logger"
	"brew_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Status stream, one frame per interval
	router.GET("/ws", h.wsConnect)

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
	api := r.Group("/api/v1", h.requireOperator)
	{
		api.GET("/status", h.getStatus)
		h.registerBrewRoutes(api)
		h.registerChannelRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerBrewRoutes(api *gin.RouterGroup) {
	brew := api.Group("/brew")
	{
		brew.GET("", h.getBrew)
		brew.GET("/recipe", h.exportRecipe)
		brew.POST("/start", h.brewAction(actionStart))
		brew.POST("/pause", h.brewAction(actionPause))
		brew.POST("/stop", h.brewAction(actionStop))
		brew.POST("/reset", h.brewAction(actionReset))
		brew.POST("/restart", h.brewAction(actionRestart))
		brew.POST("/advance", h.brewAction(actionAdvance))

		brew.GET("/steps", h.getBrew)
		// Body example: {"name":"Mash in","duration":0,"setpoint":65}
		brew.POST("/steps", h.addStep)
		brew.PUT("/steps/:name", h.editStep)
		brew.DELETE("/steps/:name", h.removeStep)
		// Body example: {"name":"Add hops","time":75}
		brew.POST("/steps/:name/tasks", h.addTask)
		brew.PUT("/tasks/:name", h.editTask)
		brew.DELETE("/tasks/:name", h.removeTask)
	}
}

func (h *Handler) registerChannelRoutes(api *gin.RouterGroup) {
	channels := api.Group("/channels/:id")
	{
		channels.POST("/enable", h.setEnabled)
		channels.POST("/ack", h.ackAlarm)
		channels.PUT("/config", h.setConfig)
		channels.POST("/reset", h.resetController)
	}
	api.PUT("/sensors/:id/simulation", h.setSimulation)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
