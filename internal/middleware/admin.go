package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/folio/internal/pkg/errcode"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/session"
)

const ContextAdminKey = "admin"

type TokenVerifier interface {
	Verify(token string) bool
}

// AdminAuth admits requests carrying a valid admin session token in the
// session cookie or a bearer header.
func AdminAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromRequest(c.Request)
		if token == "" {
			response.Abort(c, errcode.ErrUnauthorized, "unauthorized")
			return
		}
		if !verifier.Verify(token) {
			response.Abort(c, errcode.ErrUnauthorized, "unauthorized")
			return
		}
		c.Set(ContextAdminKey, true)
		c.Next()
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextAdminKey)
}
