package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/folio/internal/model"
	"github.com/xxxsen/folio/internal/pkg/dbutil"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

const shareLinkTable = "shared_links"

var shareLinkFields = []string{"id", "booklet_url", "secret_code", "expires_at", "created_at"}

type ShareLinkRepo struct {
	db *sql.DB
}

func NewShareLinkRepo(db *sql.DB) *ShareLinkRepo {
	return &ShareLinkRepo{db: db}
}

func (r *ShareLinkRepo) Create(ctx context.Context, link *model.ShareLink) error {
	data := map[string]interface{}{
		"id":          link.ID,
		"booklet_url": link.TargetURL,
		"secret_code": sql.NullString{String: link.SecretCode, Valid: link.SecretCode != ""},
		"expires_at":  nullTime(link.ExpiresAt),
		"created_at":  link.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert(shareLinkTable, []map[string]interface{}{data})
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

func (r *ShareLinkRepo) GetByID(ctx context.Context, id string) (*model.ShareLink, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect(shareLinkTable, where, shareLinkFields)
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
	return scanShareLink(rows)
}

func (r *ShareLinkRepo) ListByTarget(ctx context.Context, targetURL string) ([]model.ShareLink, error) {
	where := map[string]interface{}{"booklet_url": targetURL, "_orderby": "created_at desc"}
	sqlStr, args, err := builder.BuildSelect(shareLinkTable, where, shareLinkFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ShareLink, 0)
	for rows.Next() {
		link, err := scanShareLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *link)
	}
	return items, rows.Err()
}

func (r *ShareLinkRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete(shareLinkTable, map[string]interface{}{"id": id})
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

// DeleteExpiredBefore removes links whose expiry lies before cutoff.
func (r *ShareLinkRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM shared_links WHERE expires_at IS NOT NULL AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShareLink(row rowScanner) (*model.ShareLink, error) {
	var (
		link    model.ShareLink
		secret  sql.NullString
		expires sql.NullTime
	)
	if err := row.Scan(&link.ID, &link.TargetURL, &secret, &expires, &link.CreatedAt); err != nil {
		return nil, err
	}
	link.SecretCode = secret.String
	if expires.Valid {
		t := expires.Time
		link.ExpiresAt = &t
	}
	return &link, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
