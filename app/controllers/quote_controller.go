package controllers

import (
	"net/http"

	"github.com/address-shipping/app/requests"
	"github.com/address-shipping/app/responses"
	"github.com/address-shipping/app/services"
	"github.com/address-shipping/internal/carriers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteController báo giá vận chuyển
type QuoteController struct {
	quoteService *services.QuoteService
	logger       *zap.Logger
}

func NewQuoteController(quoteService *services.QuoteService, logger *zap.Logger) *QuoteController {
	return &QuoteController{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Quote lấy báo giá từ các hãng. Lỗi từng hãng nằm trong failures, vẫn trả 200.
func (qc *QuoteController) Quote(c *gin.Context) {
	var req requests.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	// rate limit hãng tính theo IP client
	ctx := carriers.WithCaller(c.Request.Context(), c.ClientIP())
	out, err := qc.quoteService.Quote(ctx, req)
	if err != nil {
		qc.logger.Info("Không báo giá được", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.QuoteResponse{
		Success:     len(out.Result.Quotes) > 0,
		Origin:      out.Origin,
		Destination: out.Destination,
		Quotes:      out.Result.Quotes,
		Failures:    out.Result.Failures,
	})
}

// ListCarriers danh sách hãng đang bật
func (qc *QuoteController) ListCarriers(c *gin.Context) {
	c.JSON(http.StatusOK, responses.CarriersResponse{Carriers: qc.quoteService.Carriers()})
}
