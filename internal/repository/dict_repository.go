package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

// DictRepo manages dictionaries and their data rows.  Both live in one
// repository because dict data is only ever addressed through its dict.
type DictRepo struct{ DB *sql.DB }

func NewDictRepo(db *sql.DB) *DictRepo { return &DictRepo{DB: db} }

// GetByID fetches a dictionary by id.
func (r *DictRepo) GetByID(ctx context.Context, id uint64) (model.Dict, error) {
	var (
		d    model.Dict
		desc sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,code,description,created_at,updated_at FROM sys_dicts WHERE id=? LIMIT 1",
		id).Scan(&d.ID, &d.Name, &d.Code, &desc, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Dict{}, ErrNotFound
	}
	if err != nil {
		return model.Dict{}, err
	}
	d.Description = desc.String
	return d, nil
}

// Create inserts a dictionary.  Code is unique.
func (r *DictRepo) Create(ctx context.Context, d model.Dict) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sys_dicts (name, code, description) VALUES (?,?,?)",
		strings.TrimSpace(d.Name), strings.TrimSpace(d.Code), d.Description)
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

// Update rewrites name, code and description.
func (r *DictRepo) Update(ctx context.Context, d model.Dict) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sys_dicts SET name=?, code=?, description=? WHERE id=?",
		strings.TrimSpace(d.Name), strings.TrimSpace(d.Code), d.Description, d.ID)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a dictionary and all of its data rows.
func (r *DictRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sys_dict_data WHERE dict_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sys_dicts WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns one page of dictionaries plus the total row count.
func (r *DictRepo) List(ctx context.Context, page, size int) ([]model.Dict, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sys_dicts").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,code,description,created_at,updated_at FROM sys_dicts ORDER BY id LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var dicts []model.Dict
	for rows.Next() {
		var (
			d    model.Dict
			desc sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &desc, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		d.Description = desc.String
		dicts = append(dicts, d)
	}
	return dicts, total, rows.Err()
}

// DataForDict returns the data rows of one dictionary ordered by sort.
func (r *DictRepo) DataForDict(ctx context.Context, dictID uint64) ([]model.DictData, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,dict_id,label,value,sort,is_default,created_at,updated_at FROM sys_dict_data WHERE dict_id=? ORDER BY sort, id",
		dictID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []model.DictData
	for rows.Next() {
		var d model.DictData
		if err := rows.Scan(&d.ID, &d.DictID, &d.Label, &d.Value, &d.Sort,
			&d.IsDefault, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	return data, rows.Err()
}

// CreateData inserts one data row for a dictionary.
func (r *DictRepo) CreateData(ctx context.Context, d model.DictData) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sys_dict_data (dict_id, label, value, sort, is_default) VALUES (?,?,?,?,?)",
		d.DictID, d.Label, d.Value, d.Sort, d.IsDefault)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// DeleteData removes one data row.
func (r *DictRepo) DeleteData(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sys_dict_data WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
