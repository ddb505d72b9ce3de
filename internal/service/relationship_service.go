package service

import (
	"context"

	"microblog-backend/internal/model"
	"microblog-backend/internal/repository/interfaces"
)

// RelationshipService 关注与点赞。唯一性和存在性由仓库层的数据库约束保证。
type RelationshipService struct {
	repo interfaces.RelationshipRepository
}

func NewRelationshipService(repo interfaces.RelationshipRepository) *RelationshipService {
	return &RelationshipService{repo}
}

func (s *RelationshipService) Follow(ctx context.Context, followerID, followeeID int) error {
	return s.repo.CreateFollow(ctx, &model.Follow{FollowerID: followerID, FolloweeID: followeeID})
}

// Unfollow 幂等，关系不存在时也返回成功
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, followeeID int) error {
	return s.repo.DeleteFollow(ctx, followerID, followeeID)
}

func (s *RelationshipService) Like(ctx context.Context, userID, tweetID int) error {
	return s.repo.CreateLike(ctx, &model.Like{TweetID: tweetID, UserID: userID})
}

// Unlike 幂等，未点赞时也返回成功
func (s *RelationshipService) Unlike(ctx context.Context, userID, tweetID int) error {
	return s.repo.DeleteLike(ctx, userID, tweetID)
}

type RelationshipServiceInterface interface {
	Follow(ctx context.Context, followerID, followeeID int) error
	Unfollow(ctx context.Context, followerID, followeeID int) error
	Like(ctx context.Context, userID, tweetID int) error
	Unlike(ctx context.Context, userID, tweetID int) error
}

var _ RelationshipServiceInterface = (*RelationshipService)(nil)
