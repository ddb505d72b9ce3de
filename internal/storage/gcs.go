package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	client     *storage.Client
	bucketName string
}

// NewGCSStorage credentialsFile 为空时使用默认凭据
func NewGCSStorage(ctx context.Context, bucketName, credentialsFile string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSStorage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	obj := c.client.Bucket(c.bucketName).Object(name)

	// DoesNotExist 前置条件由服务端保证不覆盖
	writer := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()
		return fmt.Errorf("上传文件失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
			return ErrFileExists
		}
		return fmt.Errorf("上传文件失败: %w", err)
	}
	return nil
}

func (c *GCSStorage) Delete(ctx context.Context, name string) error {
	err := c.client.Bucket(c.bucketName).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (c *GCSStorage) URL(name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, name)
}

func (c *GCSStorage) Close() error {
	return c.client.Close()
}
