package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	s := rg.Group("/social")
	s.POST("/follow/:uid", h.follow)
	s.DELETE("/follow/:uid", h.unfollow)
	s.GET("/users/:uid/followers", h.followers)
	s.GET("/users/:uid/following", h.following)
	s.GET("/users/:uid/counts", h.counts)

	s.POST("/configs/:id/like", h.like)
	s.DELETE("/configs/:id/like", h.unlike)
	s.POST("/configs/:id/save", h.save)
	s.DELETE("/configs/:id/save", h.unsave)
	s.GET("/saved", h.saved)
	s.GET("/feed", h.feed)
	s.GET("/trending", h.trending)

	rg.POST("/messages/:uid", h.sendMessage)
	rg.GET("/messages/:uid", h.thread)
	rg.POST("/messages/:uid/read", h.markRead)
	rg.GET("/inbox/unread", h.unread)
	rg.GET("/inbox/stream", h.streamInbox)
}
