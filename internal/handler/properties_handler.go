package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/folio/internal/config"
	"github.com/xxxsen/folio/internal/pkg/response"
)

const (
	adminLoginReady           = "ready"
	adminLoginNoSessionSecret = "no_session_secret"
	adminLoginDisabled        = "disabled"
)

type propertiesResponse struct {
	AdminLogin string            `json:"admin_login"`
	Properties config.Properties `json:"properties"`
}

// PropertiesHandler reports which settings are present so a deployment can
// be checked without exposing any value.
type PropertiesHandler struct {
	resp propertiesResponse
}

func NewPropertiesHandler(properties config.Properties) *PropertiesHandler {
	return &PropertiesHandler{resp: propertiesResponse{
		AdminLogin: adminLoginState(properties),
		Properties: properties,
	}}
}

// adminLoginState tells whether an admin can sign in. A password hash
// without a session secret leaves nothing to sign tokens with.
func adminLoginState(p config.Properties) string {
	switch {
	case !p.AdminPassword:
		return adminLoginDisabled
	case !p.SessionSecret:
		return adminLoginNoSessionSecret
	}
	return adminLoginReady
}

func (h *PropertiesHandler) Get(c *gin.Context) {
	response.Success(c, h.resp)
}
