package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/active", h.active)
	rg.GET("/username/:username", h.byUsername)
	rg.GET("/:id", h.get)
}
