package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/top-level", h.topLevel)
	rg.GET("/project/:projectId", h.byProject)
	rg.GET("/status/:status", h.byStatus)
	rg.GET("/priority/:priority", h.byPriority)
	rg.GET("/assignee/:userId", h.byAssignee)

	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/children", h.children)
	rg.GET("/:id/task-count", h.taskCount)
}
