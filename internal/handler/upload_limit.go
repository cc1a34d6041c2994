package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for form fields and part headers.
const multipartOverhead = 1 << 20

func formatUploadLimit(bytes int64) string {
	const mb = 1024 * 1024
	if bytes <= 0 {
		return "0MB"
	}
	value := bytes / mb
	if value <= 0 {
		value = 1
	}
	return strconv.FormatInt(value, 10) + "MB"
}

func limitRequestBody(c *gin.Context, maxFileBytes int64) {
	if maxFileBytes <= 0 {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFileBytes+multipartOverhead)
}
