package tweet

import (
	stderrors "errors"
	"net/http"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/service"
	"microblog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TweetHandler struct {
	contentService      service.ContentServiceInterface
	feedService         service.FeedServiceInterface
	relationshipService service.RelationshipServiceInterface
}

func NewTweetHandler(contentService service.ContentServiceInterface, feedService service.FeedServiceInterface, relationshipService service.RelationshipServiceInterface) *TweetHandler {
	return &TweetHandler{
		contentService:      contentService,
		feedService:         feedService,
		relationshipService: relationshipService,
	}
}

// CreateTweetRequest POST /api/tweets 请求体
type CreateTweetRequest struct {
	TweetData     string `json:"tweet_data" binding:"required,notblank"`
	TweetMediaIDs []int  `json:"tweet_media_ids" binding:"omitempty,unique_ids,dive,gt=0"`
}

func (h *TweetHandler) CreateTweet(c *gin.Context) {
	var req CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, bindError(err))
		return
	}

	tweetID, err := h.contentService.CreateTweet(c.Request.Context(), middleware.CurrentUserID(c), req.TweetData, req.TweetMediaIDs)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, gin.H{"tweet_id": tweetID})
}

func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	if err := h.contentService.DeleteTweet(c.Request.Context(), middleware.CurrentUserID(c), tweetID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

// ListTweets 返回当前用户的信息流
func (h *TweetHandler) ListTweets(c *gin.Context) {
	feed, err := h.feedService.GetFeed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"tweets": feed})
}

func (h *TweetHandler) GetTweet(c *gin.Context) {
	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	tweet, err := h.feedService.GetTweet(c.Request.Context(), middleware.CurrentUserID(c), tweetID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"tweet": tweet})
}

func (h *TweetHandler) LikeTweet(c *gin.Context) {
	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	if err := h.relationshipService.Like(c.Request.Context(), middleware.CurrentUserID(c), tweetID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, nil)
}

func (h *TweetHandler) UnlikeTweet(c *gin.Context) {
	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	if err := h.relationshipService.Unlike(c.Request.Context(), middleware.CurrentUserID(c), tweetID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

func tweetIDParam(c *gin.Context) (int, bool) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Invalid tweet id", err))
		return 0, false
	}
	return id, true
}

// bindError 区分无法解析的请求体和未通过校验的字段
func bindError(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrValidation, verrs.Error(), err)
	}
	return errors.Wrap(errors.ErrBadRequest, "Invalid request body", err)
}
