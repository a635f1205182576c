package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type NewsRepo struct{ DB *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{DB: db} }

const newsColumns = "id,title,content,author_id,is_published,published_at,view_count,created_at,updated_at"

func scanNews(scan func(dest ...interface{}) error) (model.News, error) {
	var n model.News
	var author sql.NullInt64
	var published sql.NullTime
	err := scan(&n.ID, &n.Title, &n.Content, &author, &n.IsPublished, &published,
		&n.ViewCount, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return model.News{}, err
	}
	n.AuthorID = uint64(author.Int64)
	if published.Valid {
		t := published.Time
		n.PublishedAt = &t
	}
	return n, nil
}

// GetByID fetches one news row.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (model.News, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM biz_news WHERE id=? LIMIT 1", id)
	n, err := scanNews(row.Scan)
	if err == sql.ErrNoRows {
		return model.News{}, ErrNotFound
	}
	return n, err
}

// Create inserts a news row and returns its ID.
func (r *NewsRepo) Create(ctx context.Context, n model.News) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO biz_news (title, content, author_id, is_published, published_at) VALUES (?,?,?,?,?)",
		n.Title, n.Content, nullableID(n.AuthorID), n.IsPublished, n.PublishedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the editable columns of a news row.
func (r *NewsRepo) Update(ctx context.Context, n model.News) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE biz_news SET title=?, content=?, is_published=?, published_at=? WHERE id=?",
		n.Title, n.Content, n.IsPublished, n.PublishedAt, n.ID)
	return err
}

// Publish marks an article published and stamps published_at once.
func (r *NewsRepo) Publish(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE biz_news SET is_published=1, published_at=COALESCE(published_at, ?) WHERE id=?",
		at, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// IncrementViews bumps the view counter atomically.
func (r *NewsRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE biz_news SET view_count=view_count+1 WHERE id=?", id)
	return err
}

// Delete removes one news row.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM biz_news WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns one page of news plus the total row count.
func (r *NewsRepo) List(ctx context.Context, page, size int) ([]model.News, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM biz_news").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+newsColumns+" FROM biz_news ORDER BY id DESC LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		n, err := scanNews(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

// nullableID maps a zero id to SQL NULL for optional foreign keys.
func nullableID(id uint64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
