package service

import (
	"context"
	stderrors "errors"
	"testing"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("known key", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByAPIKey", mock.Anything, "123a").Return(&model.User{ID: 1, Name: "name", APIKey: "123a"}, nil)

		user, err := NewIdentityService(repo).Resolve(ctx, "123a")
		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		repo.AssertExpectations(t)
	})

	t.Run("missing key never hits the store", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := NewIdentityService(repo).Resolve(ctx, "  ")
		assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))
		repo.AssertNotCalled(t, "FindByAPIKey", mock.Anything, mock.Anything)
	})

	t.Run("unknown key", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByAPIKey", mock.Anything, "nope").Return(nil, nil)

		_, err := NewIdentityService(repo).Resolve(ctx, "nope")
		assert.True(t, errors.HasCode(err, errors.ErrUnauthorized))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByAPIKey", mock.Anything, "123a").Return(nil, stderrors.New("connection refused"))

		_, err := NewIdentityService(repo).Resolve(ctx, "123a")
		assert.True(t, errors.HasCode(err, errors.ErrDatabase))
	})
}
