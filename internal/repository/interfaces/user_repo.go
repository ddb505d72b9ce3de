package interfaces

import (
	"context"

	"microblog-backend/internal/model"
)

// UserRepository 接口定义了用户仓库应该实现的方法。
// 查询不到用户时返回 (nil, nil)。
type UserRepository interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	Ping(ctx context.Context) error
}
