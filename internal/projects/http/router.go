package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/active", h.active)
	rg.GET("/status/:status", h.byStatus)
	rg.GET("/client/:clientName", h.byClient)
	rg.GET("/type/:projectType", h.byType)

	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/schedule", h.schedule)
}
