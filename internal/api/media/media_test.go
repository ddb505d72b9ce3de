package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContentService struct {
	mock.Mock
	received []byte
}

func (m *MockContentService) UploadMedia(ctx context.Context, ownerID int, upload service.MediaUpload) (int, error) {
	m.received, _ = io.ReadAll(upload.Content)
	args := m.Called(ownerID, upload.Filename, upload.Size)
	return args.Int(0), args.Error(1)
}

func (m *MockContentService) CreateTweet(ctx context.Context, authorID int, content string, mediaIDs []int) (int, error) {
	args := m.Called(authorID, content, mediaIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockContentService) DeleteTweet(ctx context.Context, authorID, tweetID int) error {
	return m.Called(authorID, tweetID).Error(0)
}

func newRouter(svc *MockContentService, maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, 2)
	})
	router.POST("/api/medias", NewMediaHandler(svc, maxSize).UploadMedia)
	return router
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	svc := new(MockContentService)
	svc.On("UploadMedia", 2, "cat.png", int64(5)).Return(12, nil)

	body, contentType := multipartBody(t, "file", "cat.png", "image")
	req, _ := http.NewRequest(http.MethodPost, "/api/medias", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	newRouter(svc, 1<<20).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"result": true, "media_id": 12}`, w.Body.String())
	assert.Equal(t, "image", string(svc.received))
	svc.AssertExpectations(t)
}

func TestUploadMediaWithoutFile(t *testing.T) {
	svc := new(MockContentService)

	body, contentType := multipartBody(t, "other", "cat.png", "image")
	req, _ := http.NewRequest(http.MethodPost, "/api/medias", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	newRouter(svc, 1<<20).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMediaServiceFailure(t *testing.T) {
	svc := new(MockContentService)
	svc.On("UploadMedia", 2, "cat.png", int64(5)).Return(0, errors.New(errors.ErrStorage, "failed to store media file"))

	body, contentType := multipartBody(t, "file", "cat.png", "image")
	req, _ := http.NewRequest(http.MethodPost, "/api/medias", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	newRouter(svc, 0).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
