package mysql

import (
	"context"
	"database/sql"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

type relationshipRepository struct {
	db *sql.DB
}

func NewRelationshipRepository(db *sql.DB) *relationshipRepository {
	return &relationshipRepository{db: db}
}

// CreateFollow 创建关注关系。重复关注依赖主键约束检测，不做先查后插。
func (r *relationshipRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	util.Logger.Info("开始创建关注", zap.Int("follower_id", follow.FollowerID), zap.Int("followee_id", follow.FolloweeID))

	if follow.FollowerID == follow.FolloweeID {
		return errors.New(errors.ErrSelfFollow, "Can't follow yourself")
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", follow.FolloweeID).Scan(&exists)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to check user", err)
	}
	if !exists {
		return errors.New(errors.ErrUserNotFound, "User not found")
	}

	query := `INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, NOW())`
	_, err = r.db.ExecContext(ctx, query, follow.FollowerID, follow.FolloweeID)
	if err != nil {
		switch {
		case isDuplicateEntry(err):
			return errors.Wrap(errors.ErrAlreadyFollowing, "You're already following this user", err)
		case isMissingParent(err):
			return errors.Wrap(errors.ErrUserNotFound, "User not found", err)
		case isCheckViolation(err):
			return errors.Wrap(errors.ErrSelfFollow, "Can't follow yourself", err)
		}
		util.Logger.Error("创建关注失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create follow", err)
	}

	util.Logger.Info("关注创建成功", zap.Int("follower_id", follow.FollowerID), zap.Int("followee_id", follow.FolloweeID))
	return nil
}

// DeleteFollow 删除关注关系，关系不存在时同样视为成功
func (r *relationshipRepository) DeleteFollow(ctx context.Context, followerID, followeeID int) error {
	query := `DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`
	res, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		util.Logger.Error("删除关注失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to delete follow", err)
	}

	affected, _ := res.RowsAffected()
	util.Logger.Info("关注删除完成",
		zap.Int("follower_id", followerID),
		zap.Int("followee_id", followeeID),
		zap.Int64("affected", affected))
	return nil
}

// GetFollowers 获取关注了 userID 的用户
func (r *relationshipRepository) GetFollowers(ctx context.Context, userID int) ([]model.UserSummary, error) {
	query := `
        SELECT u.id, u.name
        FROM follows f
        JOIN users u ON u.id = f.follower_id
        WHERE f.followee_id = ? AND f.follower_id <> f.followee_id
        ORDER BY f.created_at ASC, u.id ASC`
	return r.listUsers(ctx, query, userID)
}

// GetFollowing 获取 userID 关注的用户
func (r *relationshipRepository) GetFollowing(ctx context.Context, userID int) ([]model.UserSummary, error) {
	query := `
        SELECT u.id, u.name
        FROM follows f
        JOIN users u ON u.id = f.followee_id
        WHERE f.follower_id = ? AND f.follower_id <> f.followee_id
        ORDER BY f.created_at ASC, u.id ASC`
	return r.listUsers(ctx, query, userID)
}

func (r *relationshipRepository) listUsers(ctx context.Context, query string, userID int) ([]model.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		util.Logger.Error("获取关注列表失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list users", err)
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			util.Logger.Error("扫描关注数据失败", zap.Error(err))
			return nil, errors.Wrap(errors.ErrDatabase, "failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate users", err)
	}
	return users, nil
}

// CreateLike 创建点赞记录，推文不存在或已点赞时返回错误
func (r *relationshipRepository) CreateLike(ctx context.Context, like *model.Like) error {
	// 使用事务确保原子性
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	// 检查推文是否存在
	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM tweets WHERE id = ?)", like.TweetID).Scan(&exists)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to check tweet", err)
	}
	if !exists {
		return errors.New(errors.ErrTweetNotFound, "Tweet not found")
	}

	query := `INSERT INTO likes (tweet_id, user_id, created_at) VALUES (?, ?, NOW())`
	_, err = tx.ExecContext(ctx, query, like.TweetID, like.UserID)
	if err != nil {
		switch {
		case isDuplicateEntry(err):
			return errors.Wrap(errors.ErrAlreadyLiked, "You've already liked this tweet", err)
		case isMissingParent(err):
			return errors.Wrap(errors.ErrTweetNotFound, "Tweet not found", err)
		}
		util.Logger.Error("创建点赞失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create like", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to commit like", err)
	}
	return nil
}

// DeleteLike 取消点赞，记录不存在时同样视为成功
func (r *relationshipRepository) DeleteLike(ctx context.Context, userID, tweetID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND tweet_id = ?`, userID, tweetID)
	if err != nil {
		util.Logger.Error("取消点赞失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to delete like", err)
	}
	return nil
}
