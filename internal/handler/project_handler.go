package handler

import (
	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Title     string   `json:"title"`
	Layout    string   `json:"layout"`
	Animation string   `json:"animation"`
	Images    []string `json:"images"`
}

type updateProjectRequest struct {
	Title     *string   `json:"title"`
	Layout    *string   `json:"layout"`
	Animation *string   `json:"animation"`
	Images    *[]string `json:"images"`
}

func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handleError(c, appErr.ErrInvalid)
			return
		}
	}
	project, err := h.projects.Create(c.Request.Context(), service.CreateProjectInput{
		Title:     req.Title,
		Layout:    req.Layout,
		Animation: req.Animation,
		Images:    req.Images,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, appErr.ErrInvalid)
		return
	}
	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), service.UpdateProjectInput{
		Title:     req.Title,
		Layout:    req.Layout,
		Animation: req.Animation,
		Images:    req.Images,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}
