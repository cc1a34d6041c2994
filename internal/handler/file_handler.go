package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/folio/internal/pkg/errcode"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/service"
)

type FileHandler struct {
	media *service.MediaService
}

func NewFileHandler(media *service.MediaService) *FileHandler {
	return &FileHandler{media: media}
}

func (h *FileHandler) Upload(c *gin.Context) {
	limitRequestBody(c, h.media.MaxImageBytes())
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, errcode.ErrFileTooLarge, "file too large (max "+formatUploadLimit(h.media.MaxImageBytes())+")")
			return
		}
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if file.Size > h.media.MaxImageBytes() {
		response.Error(c, errcode.ErrFileTooLarge, "file too large (max "+formatUploadLimit(h.media.MaxImageBytes())+")")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()

	res, err := h.media.UploadImage(c.Request.Context(), opened, file.Size)
	if err != nil {
		if errors.Is(err, appErr.ErrInvalidFile) || errors.Is(err, appErr.ErrFileTooLarge) {
			handleError(c, err)
			return
		}
		response.Error(c, errcode.ErrUploadFailed, "failed to upload file")
		return
	}
	response.Success(c, res)
}

// Get streams objects of the local store. Remote stores hand out their own
// public URLs.
func (h *FileHandler) Get(c *gin.Context) {
	if h.media.StoreType() != "local" {
		c.Status(http.StatusNotFound)
		return
	}
	key := c.Param("key")
	file, err := h.media.Open(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, appErr.ErrInvalid):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, appErr.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			handleError(c, err)
		}
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
