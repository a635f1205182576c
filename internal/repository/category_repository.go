package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

const categoryColumns = "id,name,description,parent_id,sort,created_at,updated_at"

func scanCategory(scan func(dest ...interface{}) error) (model.Category, error) {
	var c model.Category
	var desc sql.NullString
	var parent sql.NullInt64
	err := scan(&c.ID, &c.Name, &desc, &parent, &c.Sort, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Category{}, err
	}
	c.Description = desc.String
	c.ParentID = uint64(parent.Int64)
	return c, nil
}

// GetByID fetches one category.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM biz_categories WHERE id=? LIMIT 1", id)
	c, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return model.Category{}, ErrNotFound
	}
	return c, err
}

// ListAll loads every category, ordered by sort, for in-memory tree display.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM biz_categories ORDER BY sort, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create inserts a category.  Name is unique.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO biz_categories (name, description, parent_id, sort) VALUES (?,?,?,?)",
		strings.TrimSpace(c.Name), c.Description, nullableID(c.ParentID), c.Sort)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the editable columns of a category.
func (r *CategoryRepo) Update(ctx context.Context, c model.Category) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE biz_categories SET name=?, description=?, parent_id=?, sort=? WHERE id=?",
		strings.TrimSpace(c.Name), c.Description, nullableID(c.ParentID), c.Sort, c.ID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a category.  Products keep their category_id; a dangling
// reference renders as uncategorized.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM biz_categories WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
