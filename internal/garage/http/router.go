package http

import "github.com/gin-gonic/gin"

// Register registers the garage routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/motos", h.createMoto)
	rg.GET("/motos", h.listMotos)
	rg.GET("/motos/:id", h.getMoto)
	rg.PUT("/motos/:id", h.updateMoto)
	rg.DELETE("/motos/:id", h.deleteMoto)
	rg.POST("/motos/:id/kits", h.createKit)
	rg.GET("/motos/:id/kits", h.listKits)

	rg.GET("/kits/:id", h.getKit)
	rg.PUT("/kits/:id", h.updateKit)
	rg.DELETE("/kits/:id", h.deleteKit)
	rg.GET("/kits/:id/balance", h.kitBalance)
	rg.POST("/kits/:id/adjustment", h.kitAdjustment)
	rg.POST("/kits/:id/configs", h.createConfig)
	rg.GET("/kits/:id/configs", h.listConfigs)

	rg.GET("/configs/:id", h.getConfig)
	rg.PUT("/configs/:id/visibility", h.setConfigVisibility)
	rg.DELETE("/configs/:id", h.deleteConfig)

	rg.GET("/explore/configs", h.listPublicConfigs)
}
