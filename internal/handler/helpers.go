package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/pkg/errcode"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
)

var errorCodes = []struct {
	err     error
	code    int
	message string
}{
	{appErr.ErrUnauthorized, errcode.ErrUnauthorized, "unauthorized"},
	{appErr.ErrNotFound, errcode.ErrNotFound, "not found"},
	{appErr.ErrInvalid, errcode.ErrInvalid, "invalid request"},
	{appErr.ErrConflict, errcode.ErrConflict, "conflict"},
	{appErr.ErrTooMany, errcode.ErrTooMany, "too many requests"},
	{appErr.ErrFileTooLarge, errcode.ErrFileTooLarge, "file too large"},
	{appErr.ErrInvalidFile, errcode.ErrInvalidFile, "invalid file"},
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	for _, item := range errorCodes {
		if errors.Is(err, item.err) {
			logger.Debug("request rejected")
			response.Error(c, item.code, item.message)
			return
		}
	}
	logger.Error("request failed")
	response.Error(c, errcode.ErrInternal, "internal error")
}
