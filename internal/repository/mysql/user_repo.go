package mysql

import (
	"context"
	"database/sql"
	"errors"

	"microblog-backend/internal/model"
	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// FindByAPIKey 通过 api-key 精确查找用户
func (r *userRepository) FindByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	query := `SELECT id, name, api_key FROM users WHERE api_key = ?`
	var user model.User
	err := r.db.QueryRowContext(ctx, query, apiKey).Scan(&user.ID, &user.Name, &user.APIKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		util.Logger.Error("通过api-key查找用户失败", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT id, name, api_key FROM users WHERE id = ?`
	var user model.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.APIKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		util.Logger.Error("查找用户失败", zap.Error(err), zap.Int("user_id", id))
		return nil, err
	}
	return &user, nil
}

// Ping 检查数据库连接
func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
