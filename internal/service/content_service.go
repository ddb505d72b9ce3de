package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"microblog-backend/internal/common"
	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/repository/interfaces"
	"microblog-backend/internal/storage"
	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

const (
	fileDeleteAttempts = 3
	fileDeleteBackoff  = 200 * time.Millisecond
)

// MediaUpload 上传的文件内容，Filename 仅用于保留扩展名
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ContentService 推文与媒体
type ContentService struct {
	repo          interfaces.ContentRepository
	storage       storage.FileStorage
	maxUploadSize int64
}

func NewContentService(repo interfaces.ContentRepository, fileStorage storage.FileStorage, maxUploadSize int64) *ContentService {
	return &ContentService{
		repo:          repo,
		storage:       fileStorage,
		maxUploadSize: maxUploadSize,
	}
}

// UploadMedia 保存文件并登记媒体，返回媒体ID。
// 文件名由 UUID 生成，不使用客户端提供的名字。
func (s *ContentService) UploadMedia(ctx context.Context, ownerID int, upload MediaUpload) (int, error) {
	if upload.Size <= 0 {
		return 0, errors.New(errors.ErrValidation, "File is empty")
	}
	if s.maxUploadSize > 0 && upload.Size > s.maxUploadSize {
		return 0, errors.New(errors.ErrValidation, fmt.Sprintf("File is larger than %d bytes", s.maxUploadSize))
	}

	media := &model.Media{
		File:    util.GenerateUniqueFilename(upload.Filename),
		OwnerID: ownerID,
	}

	persisted := false
	err := s.repo.CreateMedia(ctx, media, func(ctx context.Context) error {
		if err := s.storage.Save(ctx, media.File, upload.Content, upload.Size, upload.ContentType); err != nil {
			return err
		}
		persisted = true
		return nil
	})
	if err != nil {
		// 文件已写入但事务未提交，清理掉
		if persisted {
			s.removeFiles(ctx, []string{media.File})
		}
		return 0, err
	}

	util.Logger.Info("媒体上传成功", zap.Int("media_id", media.ID), zap.Int("owner_id", ownerID), zap.String("file", media.File))
	return media.ID, nil
}

// CreateTweet 创建推文，附件必须属于作者
func (s *ContentService) CreateTweet(ctx context.Context, authorID int, content string, mediaIDs []int) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, errors.New(errors.ErrValidation, "tweet_data must not be empty")
	}

	seen := make(map[int]struct{}, len(mediaIDs))
	for _, id := range mediaIDs {
		if _, dup := seen[id]; dup {
			return 0, errors.New(errors.ErrValidation, fmt.Sprintf("media %d is listed more than once", id))
		}
		seen[id] = struct{}{}
	}

	tweet := &model.Tweet{
		Content:  content,
		AuthorID: authorID,
		MediaIDs: mediaIDs,
	}
	if err := s.repo.CreateTweet(ctx, tweet); err != nil {
		return 0, err
	}
	return tweet.ID, nil
}

// DeleteTweet 删除推文。数据库事务提交后再删除文件。
func (s *ContentService) DeleteTweet(ctx context.Context, authorID, tweetID int) error {
	files, err := s.repo.DeleteTweet(ctx, tweetID, authorID)
	if err != nil {
		return err
	}
	s.removeFiles(ctx, files)
	return nil
}

// removeFiles 删除存储中的文件，失败时重试并记录日志
func (s *ContentService) removeFiles(ctx context.Context, files []string) {
	// 请求被取消也要完成清理
	ctx = context.WithoutCancel(ctx)
	for _, file := range files {
		err := common.WithRetry(ctx, func() error {
			return s.storage.Delete(ctx, file)
		}, fileDeleteAttempts, fileDeleteBackoff)
		if err != nil {
			util.Logger.Error("删除媒体文件失败", util.Error(err), zap.String("file", file))
		}
	}
}

type ContentServiceInterface interface {
	UploadMedia(ctx context.Context, ownerID int, upload MediaUpload) (int, error)
	CreateTweet(ctx context.Context, authorID int, content string, mediaIDs []int) (int, error)
	DeleteTweet(ctx context.Context, authorID, tweetID int) error
}

var _ ContentServiceInterface = (*ContentService)(nil)
