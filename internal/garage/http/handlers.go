package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/internal/auth"
	"github.com/moto-tune/suspension-backend/internal/garage/domain"
	"github.com/moto-tune/suspension-backend/internal/garage/service"
	"github.com/moto-tune/suspension-backend/internal/logging"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// Handler bundles the dependencies for garage HTTP endpoints.
type Handler struct {
	garage *service.GarageService
}

func New(garage *service.GarageService) *Handler {
	return &Handler{garage: garage}
}

type motoReq struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Year     int     `json:"year,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

func (r motoReq) input() service.MotoInput {
	return service.MotoInput{Brand: r.Brand, Model: r.Model, Year: r.Year, Nickname: r.Nickname}
}

func (h *Handler) createMoto(c *gin.Context) {
	var req motoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	m, err := h.garage.CreateMoto(c.Request.Context(), auth.UserFirebaseUID(c), req.input())
	if err != nil {
		writeError(c, "create moto", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "moto": m})
}

func (h *Handler) listMotos(c *gin.Context) {
	items, err := h.garage.ListMotos(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "list motos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "motos": items})
}

func (h *Handler) getMoto(c *gin.Context) {
	m, err := h.garage.GetMoto(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "get moto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "moto": m})
}

func (h *Handler) updateMoto(c *gin.Context) {
	var req motoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	m, err := h.garage.UpdateMoto(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), req.input())
	if err != nil {
		writeError(c, "update moto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "moto": m})
}

func (h *Handler) deleteMoto(c *gin.Context) {
	if err := h.garage.DeleteMoto(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id")); err != nil {
		writeError(c, "delete moto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type kitReq struct {
	Name         string               `json:"name"`
	ForkModel    string               `json:"fork_model,omitempty"`
	ShockModel   string               `json:"shock_model,omitempty"`
	Ranges       *susp.Ranges         `json:"ranges,omitempty"`
	BaseSettings susp.PartialSettings `json:"base_settings"`
}

func (r kitReq) input() service.KitInput {
	return service.KitInput{
		Name:         r.Name,
		ForkModel:    r.ForkModel,
		ShockModel:   r.ShockModel,
		Ranges:       r.Ranges,
		BaseSettings: r.BaseSettings,
	}
}

func (h *Handler) createKit(c *gin.Context) {
	var req kitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	k, err := h.garage.CreateKit(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), req.input())
	if err != nil {
		writeError(c, "create kit", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "kit": k})
}

func (h *Handler) listKits(c *gin.Context) {
	items, err := h.garage.ListKits(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "list kits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kits": items})
}

func (h *Handler) getKit(c *gin.Context) {
	k, err := h.garage.GetKit(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "get kit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kit": k})
}

func (h *Handler) updateKit(c *gin.Context) {
	var req kitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	k, err := h.garage.UpdateKitSettings(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), req.input())
	if err != nil {
		writeError(c, "update kit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kit": k})
}

func (h *Handler) deleteKit(c *gin.Context) {
	if err := h.garage.DeleteKit(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id")); err != nil {
		writeError(c, "delete kit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) kitBalance(c *gin.Context) {
	view, err := h.garage.KitBalance(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), strings.TrimSpace(c.Query("config_id")))
	if err != nil {
		writeError(c, "kit balance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "view": view})
}

func (h *Handler) kitAdjustment(c *gin.Context) {
	var req struct {
		Target susp.PartialSettings `json:"target"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	plan, err := h.garage.PlanAdjustment(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), req.Target)
	if err != nil {
		writeError(c, "plan adjustment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "plan": plan})
}

type configReq struct {
	Name     string               `json:"name"`
	Terrain  string               `json:"terrain,omitempty"`
	Notes    string               `json:"notes,omitempty"`
	Settings susp.PartialSettings `json:"settings"`
	Public   bool                 `json:"is_public"`
}

func (h *Handler) createConfig(c *gin.Context) {
	var req configReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	cfg, err := h.garage.CreateConfig(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), service.ConfigInput{
		Name:     req.Name,
		Terrain:  req.Terrain,
		Notes:    req.Notes,
		Settings: req.Settings,
		Public:   req.Public,
	})
	if err != nil {
		writeError(c, "create config", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "config": cfg})
}

func (h *Handler) listConfigs(c *gin.Context) {
	items, err := h.garage.ListConfigs(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "list configs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": items})
}

func (h *Handler) getConfig(c *gin.Context) {
	cfg, err := h.garage.GetConfig(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"))
	if err != nil {
		writeError(c, "get config", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})
}

func (h *Handler) setConfigVisibility(c *gin.Context) {
	var req struct {
		Public *bool `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Public == nil {
		badBody(c)
		return
	}
	cfg, err := h.garage.SetConfigVisibility(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id"), *req.Public)
	if err != nil {
		writeError(c, "set config visibility", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})
}

func (h *Handler) deleteConfig(c *gin.Context) {
	if err := h.garage.DeleteConfig(c.Request.Context(), auth.UserFirebaseUID(c), param(c, "id")); err != nil {
		writeError(c, "delete config", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listPublicConfigs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := domain.PublicQuery{
		Terrain: c.Query("terrain"),
		Sort:    c.Query("sort"),
		Limit:   limit,
	}
	if owner := strings.TrimSpace(c.Query("owner")); owner != "" {
		q.OwnerUIDs = []string{owner}
	}
	items, err := h.garage.ListPublicConfigs(c.Request.Context(), q)
	if err != nil {
		writeError(c, "list public configs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "configs": items})
}

func param(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to " + op})
	}
}
