package interfaces

import (
	"context"

	"microblog-backend/internal/model"
)

// RelationshipRepository 定义了关注与点赞关系的数据库操作接口。
// 边的唯一性由数据库约束保证，重复插入返回冲突错误。
type RelationshipRepository interface {
	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, followerID, followeeID int) error
	GetFollowers(ctx context.Context, userID int) ([]model.UserSummary, error)
	GetFollowing(ctx context.Context, userID int) ([]model.UserSummary, error)
	CreateLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, userID, tweetID int) error
}
