package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes trang chỉ mục và danh sách endpoint
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Address Shipping Service",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"api": "Address Shipping API v1",
			"endpoints": map[string]string{
				"resolve":  "POST /v1/addresses/resolve",
				"parse":    "POST /v1/addresses/parse",
				"batch":    "POST /v1/addresses/batch",
				"quotes":   "POST /v1/quotes",
				"carriers": "GET /v1/carriers",
				"health":   "GET /health",
				"ready":    "GET /ready",
			},
		})
	})
}
