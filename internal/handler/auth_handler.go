package handler

import (
	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/service"
	"github.com/xxxsen/folio/internal/session"
)

type AuthHandler struct {
	auth   *service.AuthService
	cookie session.CookieOptions
}

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

func NewAuthHandler(auth *service.AuthService, cookie session.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		handleError(c, appErr.ErrInvalid)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	session.SetCookie(c.Writer, token, h.cookie)
	response.Success(c, gin.H{"success": true})
}

func (h *AuthHandler) Status(c *gin.Context) {
	response.Success(c, gin.H{"authenticated": h.auth.Authenticated(session.TokenFromRequest(c.Request))})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session.ClearCookie(c.Writer, h.cookie)
	response.Success(c, gin.H{"success": true})
}
