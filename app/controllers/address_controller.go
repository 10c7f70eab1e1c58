package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/address-shipping/app/requests"
	"github.com/address-shipping/app/responses"
	"github.com/address-shipping/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	batchLimit     int
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, batchLimit int, logger *zap.Logger) *AddressController {
	if batchLimit <= 0 {
		batchLimit = 1000
	}
	return &AddressController{
		addressService: addressService,
		batchLimit:     batchLimit,
		logger:         logger,
	}
}

// ResolveAddress khớp địa chỉ đã tách sẵn tỉnh/quận/phường
func (ac *AddressController) ResolveAddress(c *gin.Context) {
	var req requests.ResolveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	result, err := ac.addressService.ResolveFields(c.Request.Context(), req.Province, req.District, req.Ward)
	if err != nil {
		ac.logger.Error("Lỗi resolve địa chỉ", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.ResolveAddressResponse{
		Success: true,
		Data:    responses.NewResolveData(result),
	})
}

// ParseAddress parse địa chỉ đơn lẻ
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	startTime := time.Now()
	result, cacheHit, err := ac.addressService.ParseAddress(c.Request.Context(), req.Address, req.Options)
	if err != nil {
		ac.logger.Error("Lỗi parse địa chỉ", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.ParseAddressResponse{
		Success:          true,
		Data:             responses.NewParseData(result),
		CacheHit:         cacheHit,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// BatchParse parse hàng loạt địa chỉ, đồng bộ
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}
	if len(req.Addresses) > ac.batchLimit {
		abortWithError(c, http.StatusBadRequest, "TOO_MANY_ADDRESSES",
			fmt.Sprintf("Số lượng địa chỉ vượt quá giới hạn (%d)", ac.batchLimit))
		return
	}

	startTime := time.Now()
	results, err := ac.addressService.ParseBatch(c.Request.Context(), req.Addresses, req.Options)
	if err != nil {
		ac.logger.Error("Lỗi parse batch", zap.Error(err), zap.Int("total", len(req.Addresses)))
		handleServiceError(c, err)
		return
	}

	resp := responses.BatchParseResponse{
		Success: true,
		Data:    make([]responses.ParseData, 0, len(results)),
		Total:   len(results),
	}
	for _, r := range results {
		if r.IsValid {
			resp.Valid++
		}
		resp.Data = append(resp.Data, responses.NewParseData(r))
	}
	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()

	c.JSON(http.StatusOK, resp)
}

// HealthCheck liveness, không phụ thuộc dữ liệu
func (ac *AddressController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).String(),
		Version:   serviceVersion,
	})
}

// Ready readiness: sẵn sàng khi đã nạp được dữ liệu địa giới
func (ac *AddressController) Ready(c *gin.Context) {
	version, err := ac.addressService.Ready(c.Request.Context())
	if err != nil {
		ac.logger.Warn("Service chưa sẵn sàng", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, responses.HealthCheckResponse{
			Status:    "unavailable",
			Timestamp: time.Now().Format(time.RFC3339),
			Uptime:    time.Since(ac.addressService.GetStartTime()).String(),
			Version:   serviceVersion,
			Services:  map[string]string{"master_data": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "ready",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).String(),
		Version:   serviceVersion,
		Services:  map[string]string{"master_data": version},
	})
}
