package routes

import (
	"github.com/address-shipping/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, quoteController *controllers.QuoteController) {
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/resolve", addressController.ResolveAddress)
			addresses.POST("/parse", addressController.ParseAddress)
			addresses.POST("/batch", addressController.BatchParse)
		}

		v1.POST("/quotes", quoteController.Quote)
		v1.GET("/carriers", quoteController.ListCarriers)

		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	router.GET("/health", addressController.HealthCheck)
	router.GET("/live", addressController.HealthCheck)

	// Readiness: chỉ sẵn sàng khi nạp được dữ liệu địa giới
	router.GET("/ready", addressController.Ready)
}
