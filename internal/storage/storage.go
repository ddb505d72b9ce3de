package storage

import (
	"context"
	"errors"
	"io"
)

// ErrFileExists 目标文件已存在，存储后端不会覆盖已有文件
var ErrFileExists = errors.New("storage: file already exists")

// FileStorage 媒体文件存储。Delete 对不存在的文件返回 nil。
type FileStorage interface {
	Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}
