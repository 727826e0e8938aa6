package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Logger mirrors the teacher's structured access log: one zap entry per
// request, severity keyed off the response status.
func Logger(log logger.Interface) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := []zap.Field{
			zap.String("method", param.Method),
			zap.String("path", param.Path),
			zap.Int("status", param.StatusCode),
			zap.Duration("latency", param.Latency),
			zap.String("client_ip", param.ClientIP),
		}
		if param.ErrorMessage != "" {
			fields = append(fields, zap.String("error", param.ErrorMessage))
		}

		switch {
		case param.StatusCode >= 500:
			log.Error("http request completed", fields...)
		case param.StatusCode >= 400:
			log.Warn("http request completed", fields...)
		default:
			log.Info("http request completed", fields...)
		}
		return ""
	})
}
