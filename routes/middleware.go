package routes

import (
	"net/http"
	"time"

	"github.com/address-shipping/app/controllers"
	"github.com/address-shipping/app/responses"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader header mang request id
const RequestIDHeader = "X-Request-ID"

// RequestID gắn request id: dùng header client gửi lên nếu có, không thì sinh uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(controllers.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger mỗi request một dòng log zap
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(controllers.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// Recovery bắt panic trong handler, trả 500 dạng ErrorResponse
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic trong handler",
					zap.Any("panic", r),
					zap.String("request_id", c.GetString(controllers.RequestIDKey)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
					Error:     "INTERNAL_ERROR",
					Message:   "Lỗi hệ thống",
					RequestID: c.GetString(controllers.RequestIDKey),
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
		c.Next()
	}
}
