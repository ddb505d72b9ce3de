package media

import (
	"net/http"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/service"
	"microblog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipart 表单除文件外的额外开销
const formOverhead = 1 << 20

type MediaHandler struct {
	contentService service.ContentServiceInterface
	maxUploadSize  int64
}

func NewMediaHandler(contentService service.ContentServiceInterface, maxUploadSize int64) *MediaHandler {
	return &MediaHandler{contentService: contentService, maxUploadSize: maxUploadSize}
}

// UploadMedia POST /api/medias，文件放在表单字段 file 中
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+formOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		util.Logger.Warn("读取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Form field 'file' is required", err))
		return
	}

	file, err := header.Open()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "Can't read uploaded file", err))
		return
	}
	defer file.Close()

	mediaID, err := h.contentService.UploadMedia(c.Request.Context(), middleware.CurrentUserID(c), service.MediaUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, gin.H{"media_id": mediaID})
}
