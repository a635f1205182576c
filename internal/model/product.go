package model

import "time"

// Product is a row in the `biz_products` table.
type Product struct {
	ID          uint64    // biz_products.id
	Name        string    // biz_products.name
	Description string    // biz_products.description
	Price       float64   // biz_products.price
	Stock       int       // biz_products.stock
	IsActive    bool      // biz_products.is_active
	CategoryID  uint64    // biz_products.category_id (0 = uncategorized)
	CreatedAt   time.Time // biz_products.created_at
	UpdatedAt   time.Time // biz_products.updated_at
}

// Category is a row in the `biz_categories` table.  Categories nest through
// ParentID the same way menus do (0 = root).
type Category struct {
	ID          uint64    // biz_categories.id
	Name        string    // biz_categories.name (unique)
	Description string    // biz_categories.description
	ParentID    uint64    // biz_categories.parent_id
	Sort        int       // biz_categories.sort
	CreatedAt   time.Time // biz_categories.created_at
	UpdatedAt   time.Time // biz_categories.updated_at
}
