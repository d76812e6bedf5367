package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.POST("/sync", h.SyncUser)
	rg.PUT("/profile", h.UpdateProfile)
}

// RegisterPublic exposes read-only rider profiles.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/users/:uid", h.GetPublicProfile)
}
