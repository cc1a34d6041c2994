package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/folio/internal/pkg/errcode"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/service"
)

type BookletHandler struct {
	booklets *service.BookletService
}

func NewBookletHandler(booklets *service.BookletService) *BookletHandler {
	return &BookletHandler{booklets: booklets}
}

func (h *BookletHandler) List(c *gin.Context) {
	items, err := h.booklets.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

// Create takes a multipart form with a title and either a pdf file or an
// external_url.
func (h *BookletHandler) Create(c *gin.Context) {
	limitRequestBody(c, h.booklets.MaxPDFBytes())
	input := service.CreateBookletInput{
		Title:       c.PostForm("title"),
		ExternalURL: c.PostForm("external_url"),
	}
	file, err := c.FormFile("pdf")
	switch {
	case err == nil:
		if file.Size > h.booklets.MaxPDFBytes() {
			response.Error(c, errcode.ErrFileTooLarge, "file too large (max "+formatUploadLimit(h.booklets.MaxPDFBytes())+")")
			return
		}
		opened, err := file.Open()
		if err != nil {
			handleError(c, appErr.ErrInvalidFile)
			return
		}
		defer opened.Close()
		input.File = opened
		input.Size = file.Size
	case errors.Is(err, http.ErrMissingFile):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, errcode.ErrFileTooLarge, "file too large (max "+formatUploadLimit(h.booklets.MaxPDFBytes())+")")
			return
		}
		handleError(c, appErr.ErrInvalid)
		return
	}
	booklet, err := h.booklets.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, booklet)
}

func (h *BookletHandler) Delete(c *gin.Context) {
	if err := h.booklets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}
