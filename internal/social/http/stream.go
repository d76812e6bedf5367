package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/internal/auth"
)

// streamInbox relays the rider's DM notifications as Server-Sent Events.
func (h *Handler) streamInbox(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if h.sub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "notifications unavailable"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	pubsub := h.sub.SubscribeDM(ctx, uid)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "notifications unavailable"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	fmt.Fprint(c.Writer, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	msgs := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: dm\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}
