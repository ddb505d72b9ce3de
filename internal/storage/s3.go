package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Storage struct {
	s3     s3iface.S3API
	bucket string
}

func NewS3Storage(region, bucket string) (*S3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Storage{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

// Save 先检查对象是否存在再上传。文件名由 UUID 生成，检查只用于拦截异常情况。
func (c *S3Storage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	_, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(name),
	})
	if err == nil {
		return ErrFileExists
	}
	if !isS3NotFound(err) {
		return fmt.Errorf("检查对象失败: %w", err)
	}

	if size > 0 {
		content = io.LimitReader(content, size)
	}
	body, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}

	_, err = c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (c *S3Storage) Delete(ctx context.Context, name string) error {
	_, err := c.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(name),
	})
	if err != nil && !isS3NotFound(err) {
		return err
	}
	return nil
}

func (c *S3Storage) URL(name string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, name)
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
