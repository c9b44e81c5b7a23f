package handlers

import (
	_ "lumen_bridge/docs"
	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/service"

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
	router.Use(gin.Recovery(), requestIDMiddleware, h.accessLog)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Liveness probe
	router.GET("/status/", h.status)

	h.registerLuminosityRoutes(router)
	h.registerControlRoutes(router)

	// Live stream of latest reading + current command (HTTP upgrade)
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerLuminosityRoutes(r *gin.Engine) {
	lum := r.Group("/luminosidade")
	{
		lum.GET("/", h.getLatestReading)
		// Body example: {"valor":512,"modo":"auto"}
		lum.POST("/", h.postReading)
		lum.GET("/historico/", h.listReadings)
	}
}

func (h *Handler) registerControlRoutes(r *gin.Engine) {
	ctl := r.Group("/controle")
	{
		// Polled by the device
		ctl.GET("/", h.getControl)
		// Body example: {"modo":"manual","cor":{"r":10,"g":20,"b":30}}
		ctl.POST("/", h.setControl)
	}
}
