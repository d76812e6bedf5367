package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/logging"
	"github.com/moto-tune/suspension-backend/internal/social/domain"
	"github.com/moto-tune/suspension-backend/internal/social/service"
)

// Subscriber opens a rider's notification subscription.
type Subscriber interface {
	SubscribeDM(ctx context.Context, uid string) *redis.PubSub
}

type Handler struct {
	social *service.SocialService
	sub    Subscriber
}

func New(social *service.SocialService, sub Subscriber) *Handler {
	return &Handler{social: social, sub: sub}
}

func (h *Handler) follow(c *gin.Context) {
	if err := h.social.Follow(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "uid")); err != nil {
		writeError(c, "follow", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) unfollow(c *gin.Context) {
	if err := h.social.Unfollow(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "uid")); err != nil {
		writeError(c, "unfollow", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) followers(c *gin.Context) {
	items, err := h.social.Followers(c.Request.Context(), param(c, "uid"))
	if err != nil {
		writeError(c, "list followers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "followers": items})
}

func (h *Handler) following(c *gin.Context) {
	items, err := h.social.Following(c.Request.Context(), param(c, "uid"))
	if err != nil {
		writeError(c, "list following", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "following": items})
}

func (h *Handler) counts(c *gin.Context) {
	counts, err := h.social.Counts(c.Request.Context(), param(c, "uid"))
	if err != nil {
		writeError(c, "count follows", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "counts": counts})
}

func (h *Handler) like(c *gin.Context) {
	card, err := h.social.Like(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "like", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": card})
}

func (h *Handler) unlike(c *gin.Context) {
	card, err := h.social.Unlike(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "unlike", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": card})
}

func (h *Handler) save(c *gin.Context) {
	if err := h.social.Save(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id")); err != nil {
		writeError(c, "save", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) unsave(c *gin.Context) {
	if err := h.social.Unsave(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id")); err != nil {
		writeError(c, "unsave", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) saved(c *gin.Context) {
	items, err := h.social.ListSaved(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "list saved", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": items})
}

func (h *Handler) feed(c *gin.Context) {
	items, err := h.social.Feed(c.Request.Context(), auth.UserFirebaseUID(c), queryInt(c, "limit"))
	if err != nil {
		writeError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": items})
}

func (h *Handler) trending(c *gin.Context) {
	items, err := h.social.Trending(c.Request.Context(), auth.UserFirebaseUID(c), queryInt(c, "limit"))
	if err != nil {
		writeError(c, "trending", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": items})
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	m, err := h.social.SendMessage(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "uid"), req.Body)
	if err != nil {
		writeError(c, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": m})
}

func (h *Handler) thread(c *gin.Context) {
	items, err := h.social.Thread(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "uid"), queryInt(c, "limit"))
	if err != nil {
		writeError(c, "thread", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": items})
}

func (h *Handler) markRead(c *gin.Context) {
	n, err := h.social.MarkRead(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "uid"))
	if err != nil {
		writeError(c, "mark read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "marked": n})
}

func (h *Handler) unread(c *gin.Context) {
	n, err := h.social.UnreadCount(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "unread count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "unread": n})
}

func param(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, domain.ErrSelfFollow), errors.Is(err, domain.ErrSelfMessage), errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to " + op})
	}
}
