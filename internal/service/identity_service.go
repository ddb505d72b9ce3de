package service

import (
	"context"
	"strings"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/repository/interfaces"
	"microblog-backend/internal/util"
)

// IdentityService 把请求头中的 api-key 解析为用户
type IdentityService struct {
	userRepo interfaces.UserRepository
}

func NewIdentityService(userRepo interfaces.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

// Resolve 精确匹配 api-key，缺失或不匹配时返回 ErrUnauthorized
func (s *IdentityService) Resolve(ctx context.Context, apiKey string) (*model.User, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New(errors.ErrUnauthorized, "api-key header is required")
	}

	user, err := s.userRepo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		util.Logger.Error("解析api-key失败", util.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to resolve api-key", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUnauthorized, "Invalid api-key")
	}
	return user, nil
}

// Ping 检查存储是否可用
func (s *IdentityService) Ping(ctx context.Context) error {
	return s.userRepo.Ping(ctx)
}

type IdentityServiceInterface interface {
	Resolve(ctx context.Context, apiKey string) (*model.User, error)
	Ping(ctx context.Context) error
}

var _ IdentityServiceInterface = (*IdentityService)(nil)
