package middleware

import (
	"microblog-backend/internal/errors"
	"microblog-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader 携带用户凭据的请求头
const APIKeyHeader = "api-key"

// 上下文中保存当前用户的键
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
)

// AuthMiddleware 通过 api-key 识别用户，失败时在访问任何数据前拒绝请求
func AuthMiddleware(identity service.IdentityServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := identity.Resolve(c.Request.Context(), c.GetHeader(APIKeyHeader))
		if err != nil {
			errors.HandleError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserName, user.Name)
		c.Next()
	}
}

// CurrentUserID 返回认证中间件写入的用户ID
func CurrentUserID(c *gin.Context) int {
	return c.GetInt(ContextUserID)
}
