package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

type LocalStorage struct {
	basePath  string
	urlPrefix string
}

// NewLocalStorage 文件保存在 basePath 下，urlPrefix 可以是路径或完整地址
func NewLocalStorage(basePath, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStorage{basePath: basePath, urlPrefix: urlPrefix}, nil
}

func (s *LocalStorage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}

	// O_EXCL 保证不会覆盖已有文件
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrFileExists
		}
		return fmt.Errorf("创建文件失败: %w", err)
	}

	if _, err = io.Copy(dst, content); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return fmt.Errorf("保存文件失败: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("保存文件失败: %w", err)
	}

	util.Logger.Info("文件上传成功", zap.String("fullPath", fullPath), zap.Int64("size", size))
	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	return strings.TrimSuffix(s.urlPrefix, "/") + "/" + name
}

// resolve 只接受单层文件名，防止路径穿越
func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("非法文件名: %q", name)
	}
	return filepath.Join(s.basePath, name), nil
}
