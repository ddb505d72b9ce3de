package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/model"
	"microblog-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID int) (*model.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockRelationshipService struct {
	mock.Mock
}

func (m *MockRelationshipService) Follow(ctx context.Context, followerID, followeeID int) error {
	return m.Called(followerID, followeeID).Error(0)
}

func (m *MockRelationshipService) Unfollow(ctx context.Context, followerID, followeeID int) error {
	return m.Called(followerID, followeeID).Error(0)
}

func (m *MockRelationshipService) Like(ctx context.Context, userID, tweetID int) error {
	return m.Called(userID, tweetID).Error(0)
}

func (m *MockRelationshipService) Unlike(ctx context.Context, userID, tweetID int) error {
	return m.Called(userID, tweetID).Error(0)
}

var (
	_ service.ProfileServiceInterface      = (*MockProfileService)(nil)
	_ service.RelationshipServiceInterface = (*MockRelationshipService)(nil)
)

func newRouter(profiles *MockProfileService, rels *MockRelationshipService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(profiles, rels)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, 1)
	})
	router.GET("/api/users/me", handler.GetMe)
	router.GET("/api/users/:id", handler.GetUser)
	router.POST("/api/users/:id/follow", handler.Follow)
	router.DELETE("/api/users/:id/follow", handler.Unfollow)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetMe(t *testing.T) {
	profiles := new(MockProfileService)
	profiles.On("GetProfile", 1).Return(&model.Profile{
		ID:        1,
		Name:      "name",
		Followers: []model.UserSummary{},
		Following: []model.UserSummary{{ID: 2, Name: "name2"}},
	}, nil)

	w := serve(newRouter(profiles, new(MockRelationshipService)), http.MethodGet, "/api/users/me")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"result": true,
		"user": {"id": 1, "name": "name", "followers": [], "following": [{"id": 2, "name": "name2"}]}
	}`, w.Body.String())
}

func TestGetUser(t *testing.T) {
	profiles := new(MockProfileService)
	profiles.On("GetProfile", 2).Return(&model.Profile{ID: 2, Name: "name2", Followers: []model.UserSummary{{ID: 1, Name: "name"}}, Following: []model.UserSummary{}}, nil)
	profiles.On("GetProfile", 77).Return(nil, errors.New(errors.ErrUserNotFound, "User not found"))
	router := newRouter(profiles, new(MockRelationshipService))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/users/2").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/users/77").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/users/x").Code)
}

func TestFollow(t *testing.T) {
	rels := new(MockRelationshipService)
	rels.On("Follow", 1, 2).Return(nil).Once()
	rels.On("Follow", 1, 2).Return(errors.New(errors.ErrAlreadyFollowing, "You're already following this user")).Once()
	rels.On("Follow", 1, 1).Return(errors.New(errors.ErrSelfFollow, "Can't follow yourself"))
	rels.On("Follow", 1, 50).Return(errors.New(errors.ErrUserNotFound, "User not found"))
	rels.On("Unfollow", 1, 2).Return(nil)
	router := newRouter(new(MockProfileService), rels)

	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/users/2/follow").Code)
	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, "/api/users/2/follow").Code)
	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, "/api/users/1/follow").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/users/50/follow").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/api/users/2/follow").Code)
	rels.AssertExpectations(t)
}
