package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,price,stock,is_active,category_id,created_at,updated_at"

func scanProduct(scan func(dest ...interface{}) error) (model.Product, error) {
	var p model.Product
	var desc sql.NullString
	var category sql.NullInt64
	err := scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &p.IsActive,
		&category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, err
	}
	p.Description = desc.String
	p.CategoryID = uint64(category.Int64)
	return p, nil
}

// GetByID fetches one product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM biz_products WHERE id=? LIMIT 1", id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO biz_products (name, description, price, stock, is_active, category_id) VALUES (?,?,?,?,?,?)",
		p.Name, p.Description, p.Price, p.Stock, p.IsActive, nullableID(p.CategoryID))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the editable columns of a product.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE biz_products SET name=?, description=?, price=?, stock=?, is_active=?, category_id=? WHERE id=?",
		p.Name, p.Description, p.Price, p.Stock, p.IsActive, nullableID(p.CategoryID), p.ID)
	return err
}

// Delete removes one product.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM biz_products WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns one page of products plus the total row count.
func (r *ProductRepo) List(ctx context.Context, page, size int) ([]model.Product, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM biz_products").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM biz_products ORDER BY id LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}
