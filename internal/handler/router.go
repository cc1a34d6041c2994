package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/folio/internal/middleware"
)

type RouterDeps struct {
	Auth       *AuthHandler
	Shares     *ShareHandler
	Projects   *ProjectHandler
	Booklets   *BookletHandler
	Files      *FileHandler
	Properties *PropertiesHandler
	Verifier   middleware.TokenVerifier
	LoginLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/admin/login", middleware.RateLimit(deps.LoginLimit), deps.Auth.Login)
	api.GET("/admin/login", deps.Auth.Status)
	api.POST("/admin/logout", deps.Auth.Logout)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(deps.Verifier))
	admin.GET("/projects", deps.Projects.List)
	admin.POST("/projects", deps.Projects.Create)
	admin.PATCH("/projects/:id", deps.Projects.Update)
	admin.DELETE("/projects/:id", deps.Projects.Delete)
	admin.POST("/upload", deps.Files.Upload)
	admin.GET("/booklets", deps.Booklets.List)
	admin.POST("/booklets", deps.Booklets.Create)
	admin.DELETE("/booklets/:id", deps.Booklets.Delete)
	admin.POST("/shares", deps.Shares.Create)
	admin.GET("/shares", deps.Shares.List)
	admin.DELETE("/shares/:id", deps.Shares.Delete)

	api.GET("/shared/:id", deps.Shares.Redeem)
	api.POST("/shared/:id", deps.Shares.Redeem)
	api.GET("/shared/:id/open", deps.Shares.Open)
	api.GET("/projects", deps.Projects.List)
	api.GET("/booklets", deps.Booklets.List)
	api.GET("/files/:key", deps.Files.Get)
	api.GET("/properties", deps.Properties.Get)
}
