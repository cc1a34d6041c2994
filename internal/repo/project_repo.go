package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/lib/pq"

	"github.com/xxxsen/folio/internal/model"
	"github.com/xxxsen/folio/internal/pkg/dbutil"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

var projectFields = []string{"id", "title", "layout", "animation", "images", "created_at"}

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	data := map[string]interface{}{
		"id":         project.ID,
		"title":      project.Title,
		"layout":     project.Layout,
		"animation":  project.Animation,
		"images":     pq.Array(project.Images),
		"created_at": project.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert("projects", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// Update writes only the non-nil fields of update.
func (r *ProjectRepo) Update(ctx context.Context, id string, update ProjectUpdate) error {
	fields := update.columns()
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	sqlStr, args, err := builder.BuildUpdate("projects", map[string]interface{}{"id": id}, fields)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

type ProjectUpdate struct {
	Title     *string
	Layout    *string
	Animation *string
	Images    *[]string
}

func (u ProjectUpdate) columns() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Layout != nil {
		fields["layout"] = *u.Layout
	}
	if u.Animation != nil {
		fields["animation"] = *u.Animation
	}
	if u.Images != nil {
		fields["images"] = pq.Array(*u.Images)
	}
	return fields
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	sqlStr, args, err := builder.BuildSelect("projects", map[string]interface{}{"id": id}, projectFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, appErr.ErrNotFound
	}
	return scanProject(rows)
}

func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	where := map[string]interface{}{"_orderby": "created_at desc"}
	sqlStr, args, err := builder.BuildSelect("projects", where, projectFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *project)
	}
	return items, rows.Err()
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("projects", map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func scanProject(row rowScanner) (*model.Project, error) {
	var project model.Project
	images := pq.StringArray{}
	if err := row.Scan(&project.ID, &project.Title, &project.Layout, &project.Animation, &images, &project.CreatedAt); err != nil {
		return nil, err
	}
	project.Images = []string(images)
	if project.Images == nil {
		project.Images = []string{}
	}
	return &project, nil
}
