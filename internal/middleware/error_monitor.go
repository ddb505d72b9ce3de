package middleware

import (
	stderrors "errors"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/metrics"
	"microblog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware 统计并记录处理器通过 HandleError 挂到上下文的错误
func ErrorMonitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			var appErr *errors.AppError
			if !stderrors.As(e.Err, &appErr) {
				continue
			}
			metrics.RecordAppError(int(appErr.Code), appErr.Code.Kind())

			fields := []zap.Field{
				zap.Int("error_code", int(appErr.Code)),
				zap.String("error_message", appErr.Message),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			}
			if appErr.Err != nil {
				fields = append(fields, zap.Error(appErr.Err))
			}

			// 客户端错误只记 Warn
			if errors.StatusOf(appErr.Code) >= 500 {
				util.Logger.Error("请求处理错误", fields...)
			} else {
				util.Logger.Warn("请求处理错误", fields...)
			}
		}
	}
}
