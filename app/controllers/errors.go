package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/address-shipping/app/responses"
	"github.com/address-shipping/app/services"
	"github.com/address-shipping/internal/geo"
	"github.com/gin-gonic/gin"
)

// RequestIDKey key của request id trong gin.Context
const RequestIDKey = "request_id"

// abortWithError ghi ErrorResponse kèm request id
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// handleServiceError map lỗi service sang HTTP status
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geo.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "MASTER_DATA_UNAVAILABLE", err.Error())
	case errors.Is(err, services.ErrEmptyAddress), errors.Is(err, services.ErrInvalidShipment):
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, services.ErrUnknownCarrier):
		abortWithError(c, http.StatusBadRequest, "UNKNOWN_CARRIER", err.Error())
	case errors.Is(err, services.ErrUnresolvedAddress):
		abortWithError(c, http.StatusUnprocessableEntity, "UNRESOLVED_ADDRESS", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		abortWithError(c, http.StatusGatewayTimeout, "TIMEOUT", err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
