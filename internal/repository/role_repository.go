package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

const roleColumns = "id,name,code,description,status,created_at,updated_at"

func (r *RoleRepo) scanRole(row *sql.Row) (model.Role, error) {
	var (
		role model.Role
		desc sql.NullString
	)
	err := row.Scan(&role.ID, &role.Name, &role.Code, &desc, &role.Status,
		&role.CreatedAt, &role.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	if err != nil {
		return model.Role{}, err
	}
	role.Description = desc.String
	return role, nil
}

// GetByID fetches a role by id.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	return r.scanRole(r.DB.QueryRowContext(ctx,
		"SELECT "+roleColumns+" FROM sys_roles WHERE id=? LIMIT 1", id))
}

// Create inserts a role and returns its ID.  Name and code are unique.
func (r *RoleRepo) Create(ctx context.Context, role model.Role) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sys_roles (name, code, description, status) VALUES (?,?,?,?)",
		strings.TrimSpace(role.Name), strings.TrimSpace(role.Code), role.Description, role.Status)
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

// Update rewrites the mutable columns of a role.
func (r *RoleRepo) Update(ctx context.Context, role model.Role) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sys_roles SET name=?, code=?, description=?, status=? WHERE id=?",
		strings.TrimSpace(role.Name), strings.TrimSpace(role.Code), role.Description, role.Status, role.ID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a role together with its user and menu links.
func (r *RoleRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sys_user_roles WHERE role_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sys_role_menus WHERE role_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sys_roles WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns one page of roles plus the total row count.
func (r *RoleRepo) List(ctx context.Context, page, size int) ([]model.Role, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sys_roles").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+roleColumns+" FROM sys_roles ORDER BY id LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var (
			role model.Role
			desc sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &role.Code, &desc, &role.Status,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, 0, err
		}
		role.Description = desc.String
		roles = append(roles, role)
	}
	return roles, total, rows.Err()
}

// RoleIDsForUser returns the ids of all roles assigned to a user.
func (r *RoleRepo) RoleIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT role_id FROM sys_user_roles WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// MenuIDsForRoles returns the distinct menu ids reachable from any of the
// given roles.  An empty role set yields an empty result without querying.
func (r *RoleRepo) MenuIDsForRoles(ctx context.Context, roleIDs []uint64) ([]uint64, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	query := "SELECT DISTINCT menu_id FROM sys_role_menus WHERE role_id IN (?" +
		strings.Repeat(",?", len(roleIDs)-1) + ")"
	args := make([]interface{}, len(roleIDs))
	for i, id := range roleIDs {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// MenuIDsForRole returns the menu ids assigned directly to one role.
func (r *RoleRepo) MenuIDsForRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT menu_id FROM sys_role_menus WHERE role_id=?", roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// ReplaceMenus rewrites the role→menu links inside one transaction.
func (r *RoleRepo) ReplaceMenus(ctx context.Context, roleID uint64, menuIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sys_role_menus WHERE role_id=?", roleID); err != nil {
		return err
	}
	for _, mid := range menuIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sys_role_menus (role_id, menu_id) VALUES (?,?)", roleID, mid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UserPermissions runs the User -> UserRole -> RoleMenu -> Menu join and
// returns the distinct non-empty permission strings of enabled menus.
func (r *RoleRepo) UserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT m.permission
		FROM sys_menus m
		JOIN sys_role_menus rm ON rm.menu_id = m.id
		JOIN sys_user_roles ur ON ur.role_id = rm.role_id
		WHERE ur.user_id = ? AND m.status = 1 AND m.permission <> ''`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func collectIDs(rows *sql.Rows) ([]uint64, error) {
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
