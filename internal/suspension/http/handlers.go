// Package http exposes the balance and adjustment calculators without storage.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moto-tune/suspension-backend/internal/suspension/adjustment"
	"github.com/moto-tune/suspension-backend/internal/suspension/balance"
	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

type Handler struct{}

func New() *Handler { return &Handler{} }

func (h *Handler) Register(rg *gin.RouterGroup) {
	s := rg.Group("/suspension")
	s.POST("/balance", h.balance)
	s.POST("/adjustment", h.adjustment)
}

type balanceReq struct {
	Settings susp.PartialSettings `json:"settings"`
	Ranges   *susp.Ranges         `json:"ranges,omitempty"`
}

// balance blends high-speed shock compression only when the caller sends it.
func (h *Handler) balance(c *gin.Context) {
	var req balanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	ranges := rangesOrDefault(req.Ranges)
	if !req.Settings.Within(ranges) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "settings outside ranges"})
		return
	}

	s := susp.ResolveSettings(req.Settings, susp.PartialSettings{}, ranges.Defaults())
	if !ranges.Contains(s) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "settings outside ranges"})
		return
	}
	in := balance.Input{
		ForkCompression:        s.ForkCompression,
		ForkRebound:            s.ForkRebound,
		ShockCompressionLow:    s.ShockCompressionLow,
		ShockRebound:           s.ShockRebound,
		MaxForkCompression:     ranges.MaxForkCompression,
		MaxForkRebound:         ranges.MaxForkRebound,
		MaxShockCompressionLow: ranges.MaxShockCompressionLow,
		MaxShockRebound:        ranges.MaxShockRebound,
	}
	if req.Settings.ShockCompressionHigh != nil {
		in.ShockCompressionHigh = &balance.HighSpeed{
			Value: *req.Settings.ShockCompressionHigh,
			Max:   ranges.MaxShockCompressionHigh,
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s, "balance": balance.Calculate(in)})
}

type adjustmentReq struct {
	Current susp.PartialSettings `json:"current"`
	Target  susp.PartialSettings `json:"target"`
	Ranges  *susp.Ranges         `json:"ranges,omitempty"`
}

// adjustment plans the dial moves from current to target. Fields missing from
// current take the defaults of the ranges; fields missing from target stay
// where they are.
func (h *Handler) adjustment(c *gin.Context) {
	var req adjustmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	ranges := rangesOrDefault(req.Ranges)
	if !req.Current.Within(ranges) || !req.Target.Within(ranges) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "settings outside ranges"})
		return
	}

	current := susp.ResolveSettings(req.Current, susp.PartialSettings{}, ranges.Defaults())
	target := susp.ResolveSettings(req.Target, susp.PartialSettings{}, current)
	if !ranges.Contains(current) || !ranges.Contains(target) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "settings outside ranges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"steps":   adjustment.Plan(current, target, ranges),
		"balance": balance.FromSettings(target, ranges),
	})
}

func rangesOrDefault(r *susp.Ranges) susp.Ranges {
	if r == nil {
		return susp.DefaultRanges
	}
	return r.Normalize()
}
