package http

import "github.com/gin-gonic/gin"

// Register attaches holiday routes. Writes run behind the given guards.
func (h *Handler) Register(rg *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/range", h.byRange)
	rg.GET("/non-working", h.nonWorking)
	rg.GET("/check", h.check)
	rg.GET("/working-day", h.workingDay)
	rg.GET("/next-working-day", h.nextWorkingDay)
	rg.GET("/working-days", h.workingDays)
	rg.GET("/:id", h.get)

	w := rg.Group("", writeGuards...)
	w.POST("", h.create)
	w.PUT("/:id", h.update)
	w.DELETE("/:id", h.delete)
}
