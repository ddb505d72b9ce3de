package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 定义错误码类型
type ErrorCode int

// 定义系统级错误码 (1000-1999)
const (
	ErrInternal ErrorCode = 1000 + iota
	ErrDatabase
	ErrStorage
	ErrTimeout
)

// 定义认证相关错误码 (2000-2999)
const (
	ErrUnauthorized ErrorCode = 2000 + iota
	ErrForbidden
)

// 定义请求相关错误码 (3000-3999)
const (
	ErrBadRequest ErrorCode = 3000 + iota
	ErrValidation
	ErrResourceNotFound
	ErrResourceExists
	ErrResourceConflict
)

// 定义业务相关错误码 (4000-4999)
const (
	ErrUserNotFound ErrorCode = 4000 + iota
	ErrTweetNotFound
	ErrMediaNotFound
	ErrSelfFollow
	ErrAlreadyFollowing
	ErrAlreadyLiked
	ErrNotTweetOwner
	ErrMediaNotOwned
)

// AppError 定义应用错误结构
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is(err, errors.New(code, ""))
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf 返回错误链上第一个 AppError 的错误码，不存在时返回 ErrInternal
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// HasCode 判断错误链上是否存在指定错误码
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Kind 返回错误码所属的失败类别
func (c ErrorCode) Kind() string {
	switch c {
	case ErrUnauthorized:
		return "AuthenticationFailure"
	case ErrBadRequest, ErrValidation, ErrMediaNotOwned, ErrMediaNotFound:
		return "ValidationFailure"
	case ErrResourceExists, ErrResourceConflict, ErrSelfFollow, ErrAlreadyFollowing, ErrAlreadyLiked:
		return "ConflictFailure"
	case ErrResourceNotFound, ErrUserNotFound, ErrTweetNotFound:
		return "NotFoundFailure"
	case ErrForbidden, ErrNotTweetOwner:
		return "OwnershipFailure"
	case ErrDatabase, ErrStorage:
		return "StorageFailure"
	default:
		return "InternalFailure"
	}
}
