// Package routes đăng ký routes và middleware cho service
//
// Cấu trúc:
//   - api.go: API routes (/v1/*) và health check
//   - web.go: trang chỉ mục (/, /docs)
//   - middleware.go: request id, log request
package routes

import (
	"net/http"

	"github.com/address-shipping/app/controllers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupAllRoutes thiết lập middleware và tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, quoteController *controllers.QuoteController, logger *zap.Logger) {
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(Recovery(logger))

	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController, quoteController)

	router.NoRoute(func(c *gin.Context) {
		abortNotFound(c)
	})
}

func abortNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":      "NOT_FOUND",
		"message":    "Route not found",
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(controllers.RequestIDKey),
	})
}
