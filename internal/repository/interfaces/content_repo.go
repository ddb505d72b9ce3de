package interfaces

import (
	"context"
	"time"

	"microblog-backend/internal/model"
)

// ContentRepository 定义了推文与媒体的数据库操作接口
type ContentRepository interface {
	// CreateMedia 在事务内插入媒体记录并调用 persist 写入文件，persist 失败时回滚
	CreateMedia(ctx context.Context, media *model.Media, persist func(ctx context.Context) error) error
	// CreateTweet 校验附件归属后插入推文，任一附件无效时不创建任何记录
	CreateTweet(ctx context.Context, tweet *model.Tweet) error
	GetTweetByID(ctx context.Context, id int) (*model.Tweet, error)
	// DeleteTweet 删除推文及其点赞和附件记录，返回需要清理的文件
	DeleteTweet(ctx context.Context, tweetID, authorID int) ([]string, error)
	ListFeedRows(ctx context.Context, requesterID int) ([]model.FeedRow, error)
	ListTweetRows(ctx context.Context, requesterID, tweetID int) ([]model.FeedRow, error)
	ListOrphanMedia(ctx context.Context, createdBefore time.Time, limit int) ([]model.Media, error)
	DeleteOrphanMedia(ctx context.Context, mediaID int) (bool, error)
}
