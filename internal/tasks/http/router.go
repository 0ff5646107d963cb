package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)

	rg.GET("/filter", h.filter)
	rg.GET("/epics", h.epics)
	rg.GET("/epic/:epicId", h.byEpic)
	rg.GET("/type/:type", h.byType)
	rg.GET("/status/:status", h.byStatus)
	rg.GET("/priority/:priority", h.byPriority)

	rg.POST("/calculate-end-date", h.calculateEndDate)
	rg.GET("/validate-end-date", h.validateEndDate)

	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/subtasks", h.subtasks)
}
