package http

import "github.com/gin-gonic/gin"

// Register mounts the conversation routes. chatLimit guards the endpoint that
// calls the completion provider.
func (h *Handler) Register(rg *gin.RouterGroup, chatLimit gin.HandlerFunc) {
	rg.POST("/conversations", h.create)
	rg.GET("/conversations", h.list)
	rg.GET("/conversations/:id", h.get)
	rg.GET("/conversations/:id/messages", h.listMessages)

	post := []gin.HandlerFunc{h.postMessage}
	if chatLimit != nil {
		post = append([]gin.HandlerFunc{chatLimit}, post...)
	}
	rg.POST("/conversations/:id/messages", post...)
}
