package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/qr", h.qr)
		api.POST("/tickets/image", h.ticketImage)
		api.POST("/tickets/export", h.exportTickets)
		api.POST("/assets/warm", h.warmAssets)
	}
}

// NewEngine returns a gin engine with recovery, request logging and the API
// routes installed.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger()))
	RegisterRoutes(r, h)
	return r
}
