package http

import "github.com/gin-gonic/gin"

// Register attaches the auth routes. authenticate guards /verify and
// loginGuards run in front of /login.
func (h *Handler) Register(rg *gin.RouterGroup, authenticate gin.HandlerFunc, loginGuards ...gin.HandlerFunc) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", append(loginGuards, h.login)...)
	rg.GET("/verify", authenticate, h.verify)
}
