package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/conversation/domain"
	"github.com/moto-tune/suspension-backend/internal/conversation/service"
	"github.com/moto-tune/suspension-backend/internal/logging"
)

type Handler struct {
	chat *service.ChatService
}

func New(chat *service.ChatService) *Handler {
	return &Handler{chat: chat}
}

type createReq struct {
	Title string  `json:"title"`
	KitID *string `json:"kit_id,omitempty"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	conv, err := h.chat.Create(c.Request.Context(), auth.UserFirebaseUID(c), service.CreateRequest{Title: req.Title, KitID: req.KitID})
	if err != nil {
		writeError(c, "create conversation", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "conversation": conv})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.chat.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "list conversations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "conversations": items})
}

func (h *Handler) get(c *gin.Context) {
	conv, err := h.chat.Get(c.Request.Context(), auth.UserFirebaseUID(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		writeError(c, "get conversation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "conversation": conv})
}

func (h *Handler) listMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.chat.Messages(c.Request.Context(), auth.UserFirebaseUID(c), strings.TrimSpace(c.Param("id")), limit)
	if err != nil {
		writeError(c, "list messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": items})
}

type postMsgReq struct {
	Message string `json:"message"`
}

func (h *Handler) postMessage(c *gin.Context) {
	var req postMsgReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	resp, err := h.chat.PostMessage(c.Request.Context(), auth.UserFirebaseUID(c), strings.TrimSpace(c.Param("id")), req.Message)
	if err != nil {
		writeError(c, "post message", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":                true,
		"answer":            resp.AssistantMessage.Content,
		"settings":          resp.AssistantMessage.Settings,
		"step":              resp.Conversation.Step,
		"config_mode":       resp.Conversation.ConfigMode,
		"degraded":          resp.Degraded,
		"phase_stale":       resp.PhaseStale,
		"user_message":      resp.UserMessage,
		"assistant_message": resp.AssistantMessage,
	})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "conversation not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to " + op})
	}
}
