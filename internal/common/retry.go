package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"time"
)

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	return IsTemporary(err) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn)
}

// WithRetry 通用重试机制，任何错误都会重试。第 i 次失败后等待 i*backoff。
func WithRetry(ctx context.Context, operation func() error, maxRetries int, backoff time.Duration) error {
	return WithRetryIf(ctx, operation, func(error) bool { return true }, maxRetries, backoff)
}

// WithRetryIf 仅在 retryable 返回 true 时重试
func WithRetryIf(ctx context.Context, operation func() error, retryable func(error) bool, maxRetries int, backoff time.Duration) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !retryable(err) || i == maxRetries-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return err
}
