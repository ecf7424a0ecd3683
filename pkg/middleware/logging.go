package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gochat/pkg/logger"
)

// RequestLogging 请求日志中间件：为每个请求生成request_id
// 并记录方法、路径、状态码与耗时。
func RequestLogging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithRequestID(c.Request.Context(), uuid.NewString())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		log.Info(ctx, "HTTP request",
			logger.F("method", c.Request.Method),
			logger.F("path", c.Request.URL.Path),
			logger.F("status", c.Writer.Status()),
			logger.F("latency", time.Since(start).String()),
			logger.F("client_ip", c.ClientIP()),
		)
	}
}
