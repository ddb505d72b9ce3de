package service

import (
	"context"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/repository/interfaces"
)

// ProfileService 组装用户资料
type ProfileService struct {
	userRepo interfaces.UserRepository
	relRepo  interfaces.RelationshipRepository
}

func NewProfileService(userRepo interfaces.UserRepository, relRepo interfaces.RelationshipRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, relRepo: relRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int) (*model.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	followers, err := s.relRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.relRepo.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Followers: withoutUser(followers, userID),
		Following: withoutUser(following, userID),
	}, nil
}

// withoutUser 去掉自引用，结果不为 nil
func withoutUser(users []model.UserSummary, userID int) []model.UserSummary {
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return out
}

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID int) (*model.Profile, error)
}

var _ ProfileServiceInterface = (*ProfileService)(nil)
