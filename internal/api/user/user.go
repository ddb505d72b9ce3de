package user

import (
	"net/http"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/service"
	"microblog-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	profileService      service.ProfileServiceInterface
	relationshipService service.RelationshipServiceInterface
}

func NewUserHandler(profileService service.ProfileServiceInterface, relationshipService service.RelationshipServiceInterface) *UserHandler {
	return &UserHandler{
		profileService:      profileService,
		relationshipService: relationshipService,
	}
}

// GetMe 当前用户的资料
func (h *UserHandler) GetMe(c *gin.Context) {
	h.writeProfile(c, middleware.CurrentUserID(c))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	h.writeProfile(c, userID)
}

func (h *UserHandler) writeProfile(c *gin.Context, userID int) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) Follow(c *gin.Context) {
	followeeID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.relationshipService.Follow(c.Request.Context(), middleware.CurrentUserID(c), followeeID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusCreated, nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	followeeID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.relationshipService.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), followeeID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, nil)
}

func userIDParam(c *gin.Context) (int, bool) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Invalid user id", err))
		return 0, false
	}
	return id, true
}
