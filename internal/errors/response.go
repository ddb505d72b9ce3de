package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Result       bool      `json:"result"`
	ErrorType    string    `json:"error_type"`
	ErrorMessage string    `json:"error_message"`
	Code         ErrorCode `json:"code"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrStorage:  http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	// 认证错误 (2000-2999)
	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,

	// 请求错误 (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusUnprocessableEntity,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrResourceConflict: http.StatusConflict,

	// 业务错误 (4000-4999)
	ErrUserNotFound:     http.StatusNotFound,
	ErrTweetNotFound:    http.StatusNotFound,
	ErrMediaNotFound:    http.StatusUnprocessableEntity,
	ErrSelfFollow:       http.StatusConflict,
	ErrAlreadyFollowing: http.StatusConflict,
	ErrAlreadyLiked:     http.StatusConflict,
	ErrNotTweetOwner:    http.StatusForbidden,
	ErrMediaNotOwned:    http.StatusUnprocessableEntity,
}

// StatusOf 返回错误码对应的 HTTP 状态码
func StatusOf(code ErrorCode) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError 统一处理错误响应，并把错误挂到 gin 上下文供监控中间件统计
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = Wrap(ErrInternal, "Internal Server Error", err)
	}
	_ = c.Error(appErr)

	message := appErr.Message
	if appErr.Code == ErrInternal && message == "" {
		message = "Internal Server Error"
	}

	c.AbortWithStatusJSON(StatusOf(appErr.Code), ErrorResponse{
		Result:       false,
		ErrorType:    appErr.Code.Kind(),
		ErrorMessage: message,
		Code:         appErr.Code,
	})
}

// HandleSuccess 统一处理成功响应，payload 中的字段与 "result": true 合并输出
func HandleSuccess(c *gin.Context, status int, payload gin.H) {
	resp := gin.H{"result": true}
	for k, v := range payload {
		resp[k] = v
	}
	c.JSON(status, resp)
}
