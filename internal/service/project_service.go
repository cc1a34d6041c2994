package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/folio/internal/model"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/repo"
)

const defaultProjectTitle = "Untitled"

type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, id string, update repo.ProjectUpdate) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectService struct {
	projects ProjectStore
}

type CreateProjectInput struct {
	Title     string
	Layout    string
	Animation string
	Images    []string
}

type UpdateProjectInput struct {
	Title     *string
	Layout    *string
	Animation *string
	Images    *[]string
}

func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate project id: %w", err)
	}
	project := &model.Project{
		ID:        id,
		Title:     strings.TrimSpace(input.Title),
		Layout:    input.Layout,
		Animation: input.Animation,
		Images:    cleanImages(input.Images),
		CreatedAt: time.Now().UTC(),
	}
	if project.Title == "" {
		project.Title = defaultProjectTitle
	}
	if project.Layout == "" {
		project.Layout = model.ProjectLayoutGrid
	}
	if project.Animation == "" {
		project.Animation = model.ProjectAnimationFade
	}
	if !model.ValidProjectLayout(project.Layout) || !model.ValidProjectAnimation(project.Animation) {
		return nil, appErr.ErrInvalid
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (*model.Project, error) {
	if id == "" {
		return nil, appErr.ErrInvalid
	}
	update := repo.ProjectUpdate{Layout: input.Layout, Animation: input.Animation}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, appErr.ErrInvalid
		}
		update.Title = &title
	}
	if input.Layout != nil && !model.ValidProjectLayout(*input.Layout) {
		return nil, appErr.ErrInvalid
	}
	if input.Animation != nil && !model.ValidProjectAnimation(*input.Animation) {
		return nil, appErr.ErrInvalid
	}
	if input.Images != nil {
		images := cleanImages(*input.Images)
		update.Images = &images
	}
	if err := s.projects.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErr.ErrInvalid
	}
	return s.projects.Delete(ctx, id)
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, item := range images {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
