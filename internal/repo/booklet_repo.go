package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/folio/internal/model"
	"github.com/xxxsen/folio/internal/pkg/dbutil"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

var bookletFields = []string{"id", "title", "pdf_url", "storage_key", "created_at"}

type BookletRepo struct {
	db *sql.DB
}

func NewBookletRepo(db *sql.DB) *BookletRepo {
	return &BookletRepo{db: db}
}

func (r *BookletRepo) Create(ctx context.Context, booklet *model.Booklet) error {
	data := map[string]interface{}{
		"id":          booklet.ID,
		"title":       booklet.Title,
		"pdf_url":     booklet.PDFURL,
		"storage_key": booklet.StorageKey,
		"created_at":  booklet.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert("booklets", []map[string]interface{}{data})
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

func (r *BookletRepo) GetByID(ctx context.Context, id string) (*model.Booklet, error) {
	sqlStr, args, err := builder.BuildSelect("booklets", map[string]interface{}{"id": id}, bookletFields)
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
	var booklet model.Booklet
	if err := rows.Scan(&booklet.ID, &booklet.Title, &booklet.PDFURL, &booklet.StorageKey, &booklet.CreatedAt); err != nil {
		return nil, err
	}
	return &booklet, nil
}

func (r *BookletRepo) List(ctx context.Context) ([]model.Booklet, error) {
	where := map[string]interface{}{"_orderby": "created_at desc"}
	sqlStr, args, err := builder.BuildSelect("booklets", where, bookletFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Booklet, 0)
	for rows.Next() {
		var booklet model.Booklet
		if err := rows.Scan(&booklet.ID, &booklet.Title, &booklet.PDFURL, &booklet.StorageKey, &booklet.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, booklet)
	}
	return items, rows.Err()
}

func (r *BookletRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("booklets", map[string]interface{}{"id": id})
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
