package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

const menuColumns = "id,parent_id,title,name,path,component,icon,sort,menu_type,permission,status,is_visible,created_at,updated_at"

func scanMenu(scan func(dest ...interface{}) error) (model.Menu, error) {
	var m model.Menu
	var path, component, icon, perm sql.NullString
	err := scan(&m.ID, &m.ParentID, &m.Title, &m.Name, &path, &component, &icon,
		&m.Sort, &m.MenuType, &perm, &m.Status, &m.IsVisible, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Menu{}, err
	}
	m.Path = path.String
	m.Component = component.String
	m.Icon = icon.String
	m.Permission = perm.String
	return m, nil
}

// GetByID fetches a menu by id.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (model.Menu, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+menuColumns+" FROM sys_menus WHERE id=? LIMIT 1", id)
	m, err := scanMenu(row.Scan)
	if err == sql.ErrNoRows {
		return model.Menu{}, ErrNotFound
	}
	return m, err
}

// ListAll loads every menu row in one query, ordered by sort.  The tree
// builder works from this flat snapshot so no per-node queries happen.
func (r *MenuRepo) ListAll(ctx context.Context) ([]model.Menu, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuColumns+" FROM sys_menus ORDER BY sort, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []model.Menu
	for rows.Next() {
		m, err := scanMenu(rows.Scan)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// Create inserts a menu and returns its ID.
func (r *MenuRepo) Create(ctx context.Context, m model.Menu) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sys_menus (parent_id, title, name, path, component, icon, sort, menu_type, permission, status, is_visible) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		m.ParentID, m.Title, m.Name, m.Path, m.Component, m.Icon, m.Sort, m.MenuType, m.Permission, m.Status, m.IsVisible)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable columns of a menu.
func (r *MenuRepo) Update(ctx context.Context, m model.Menu) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sys_menus SET parent_id=?, title=?, name=?, path=?, component=?, icon=?, sort=?, menu_type=?, permission=?, status=?, is_visible=? WHERE id=?",
		m.ParentID, m.Title, m.Name, m.Path, m.Component, m.Icon, m.Sort, m.MenuType, m.Permission, m.Status, m.IsVisible, m.ID)
	return err
}

// Delete removes a menu and its role links.  Children are left in place with
// a dangling parent_id; the tree builder treats them as roots.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sys_role_menus WHERE menu_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sys_menus WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns one page of menus plus the total row count.
func (r *MenuRepo) List(ctx context.Context, page, size int) ([]model.Menu, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sys_menus").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuColumns+" FROM sys_menus ORDER BY sort, id LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var menus []model.Menu
	for rows.Next() {
		m, err := scanMenu(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		menus = append(menus, m)
	}
	return menus, total, rows.Err()
}
