package service

import (
	"context"
	"io"
	"time"

	"microblog-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*model.User, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockRelationshipRepository 是 RelationshipRepository 接口的模拟实现
type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	return m.Called(ctx, follow).Error(0)
}

func (m *MockRelationshipRepository) DeleteFollow(ctx context.Context, followerID, followeeID int) error {
	return m.Called(ctx, followerID, followeeID).Error(0)
}

func (m *MockRelationshipRepository) GetFollowers(ctx context.Context, userID int) ([]model.UserSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.UserSummary), args.Error(1)
}

func (m *MockRelationshipRepository) GetFollowing(ctx context.Context, userID int) ([]model.UserSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.UserSummary), args.Error(1)
}

func (m *MockRelationshipRepository) CreateLike(ctx context.Context, like *model.Like) error {
	return m.Called(ctx, like).Error(0)
}

func (m *MockRelationshipRepository) DeleteLike(ctx context.Context, userID, tweetID int) error {
	return m.Called(ctx, userID, tweetID).Error(0)
}

// MockContentRepository 是 ContentRepository 接口的模拟实现。
// CreateMedia 的返回值依次为：插入错误、媒体ID、提交错误。
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreateMedia(ctx context.Context, media *model.Media, persist func(ctx context.Context) error) error {
	args := m.Called(ctx, media)
	if err := args.Error(0); err != nil {
		return err
	}
	media.ID = args.Int(1)
	if err := persist(ctx); err != nil {
		return err
	}
	return args.Error(2)
}

func (m *MockContentRepository) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	args := m.Called(ctx, tweet)
	if args.Error(0) == nil {
		tweet.ID = args.Int(1)
	}
	return args.Error(0)
}

func (m *MockContentRepository) GetTweetByID(ctx context.Context, id int) (*model.Tweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tweet), args.Error(1)
}

func (m *MockContentRepository) DeleteTweet(ctx context.Context, tweetID, authorID int) ([]string, error) {
	args := m.Called(ctx, tweetID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentRepository) ListFeedRows(ctx context.Context, requesterID int) ([]model.FeedRow, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedRow), args.Error(1)
}

func (m *MockContentRepository) ListTweetRows(ctx context.Context, requesterID, tweetID int) ([]model.FeedRow, error) {
	args := m.Called(ctx, requesterID, tweetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedRow), args.Error(1)
}

func (m *MockContentRepository) ListOrphanMedia(ctx context.Context, createdBefore time.Time, limit int) ([]model.Media, error) {
	args := m.Called(ctx, createdBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Media), args.Error(1)
}

func (m *MockContentRepository) DeleteOrphanMedia(ctx context.Context, mediaID int) (bool, error) {
	args := m.Called(ctx, mediaID)
	return args.Bool(0), args.Error(1)
}

// MockFileStorage 是 FileStorage 接口的模拟实现，Save 会读取全部内容
type MockFileStorage struct {
	mock.Mock
	saved map[string][]byte
}

func (m *MockFileStorage) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(content)
	args := m.Called(ctx, name, size, contentType)
	if args.Error(0) == nil {
		if m.saved == nil {
			m.saved = make(map[string][]byte)
		}
		m.saved[name] = data
	}
	return args.Error(0)
}

func (m *MockFileStorage) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockFileStorage) URL(name string) string {
	return "/uploads/" + name
}
