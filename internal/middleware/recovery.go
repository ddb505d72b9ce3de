package middleware

import (
	"fmt"
	"runtime/debug"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// 记录堆栈信息
				stack := string(debug.Stack())
				util.Logger.Error("发生panic",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", stack))

				errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Internal Server Error", fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
